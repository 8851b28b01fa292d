// Package pricing computes box prices from volume or weight using ordered
// tier tables. Pure lookups, no persistence.
package pricing

import (
	"errors"
	"math"
)

// MaxWeightKg is the heaviest package the weight tariff covers.
const MaxWeightKg = 1000.0

// ErrWeightOutOfRange is returned for weights outside (0, MaxWeightKg].
var ErrWeightOutOfRange = errors.New("weight must be greater than 0 and at most 1000 kg")

type volumeTier struct {
	maxVolume float64 // cubic centimetres, inclusive upper bound
	price     float64
}

type weightTier struct {
	maxWeight float64 // kilograms, inclusive upper bound
	flat      float64 // flat price when > 0
	perKg     float64 // per-kg rate when flat == 0
	message   string
}

// Tariff tables. Ordered by breakpoint; the first matching tier wins.
// Prices in LKR.
var volumeTiers = []volumeTier{
	{maxVolume: 30000, price: 7500},
	{maxVolume: 60000, price: 14000},
	{maxVolume: 100000, price: 22000},
	{maxVolume: 150000, price: 31500},
}

// volumeOverflowRate prices anything above the last volume tier.
const volumeOverflowRate = 0.22 // per cubic centimetre

var weightTiers = []weightTier{
	{maxWeight: 5, flat: 4500, message: "Standard parcel rate"},
	{maxWeight: 10, flat: 8000, message: "Standard parcel rate"},
	{maxWeight: 20, flat: 14500, message: "Standard parcel rate"},
	{maxWeight: 50, perKg: 700, message: "Heavy parcel rate per kg"},
	{maxWeight: MaxWeightKg, perKg: 650, message: "Cargo rate per kg"},
}

// WeightQuote carries the computed price and the tariff note shown to the
// customer alongside it.
type WeightQuote struct {
	Price   float64
	Message string
}

// Volume returns width*height*length. Custom-size packages use the same
// formula over the client supplied dimensions.
func Volume(width, height, length float64) float64 {
	return width * height * length
}

// PriceByVolume returns the price for the given volume in cubic centimetres.
// Negative volumes are treated as zero.
func PriceByVolume(volume float64) float64 {
	if volume < 0 {
		volume = 0
	}
	for _, tier := range volumeTiers {
		if volume <= tier.maxVolume {
			return tier.price
		}
	}
	return round2(volume * volumeOverflowRate)
}

// PriceByWeight returns the price and tariff note for the given weight in
// kilograms. Weights outside (0, MaxWeightKg] are rejected, not computed.
func PriceByWeight(weight float64) (WeightQuote, error) {
	if weight <= 0 || weight > MaxWeightKg {
		return WeightQuote{}, ErrWeightOutOfRange
	}
	for _, tier := range weightTiers {
		if weight <= tier.maxWeight {
			price := tier.flat
			if price == 0 {
				price = round2(weight * tier.perKg)
			}
			return WeightQuote{Price: price, Message: tier.message}, nil
		}
	}
	// Unreachable: the last tier's bound equals MaxWeightKg.
	return WeightQuote{}, ErrWeightOutOfRange
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
