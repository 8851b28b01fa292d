package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceByVolumeTiers(t *testing.T) {
	assert.Equal(t, 7500.0, PriceByVolume(0))
	assert.Equal(t, 7500.0, PriceByVolume(30000))
	assert.Equal(t, 14000.0, PriceByVolume(30001))
	assert.Equal(t, 22000.0, PriceByVolume(100000))
	assert.Equal(t, 31500.0, PriceByVolume(150000))

	// Above the last tier the per-cm3 formula applies.
	assert.Equal(t, 44000.0, PriceByVolume(200000))
}

func TestPriceByVolumeMonotonicWithinTiers(t *testing.T) {
	volumes := []float64{0, 1000, 29999, 30000, 30001, 59999, 60000, 99999, 150000, 160000, 500000}
	prev := 0.0
	for _, v := range volumes {
		price := PriceByVolume(v)
		assert.GreaterOrEqual(t, price, prev, "price must not decrease at volume %v", v)
		prev = price
	}
}

func TestPriceByVolumeNegativeTreatedAsZero(t *testing.T) {
	assert.Equal(t, PriceByVolume(0), PriceByVolume(-5))
}

func TestPriceByWeightBounds(t *testing.T) {
	_, err := PriceByWeight(0)
	require.ErrorIs(t, err, ErrWeightOutOfRange)

	_, err = PriceByWeight(-3)
	require.ErrorIs(t, err, ErrWeightOutOfRange)

	_, err = PriceByWeight(1000.01)
	require.ErrorIs(t, err, ErrWeightOutOfRange)

	// The upper boundary itself is chargeable.
	quote, err := PriceByWeight(1000)
	require.NoError(t, err)
	assert.Equal(t, 650000.0, quote.Price)
	assert.Equal(t, "Cargo rate per kg", quote.Message)
}

func TestPriceByWeightTiers(t *testing.T) {
	quote, err := PriceByWeight(4.5)
	require.NoError(t, err)
	assert.Equal(t, 4500.0, quote.Price)

	quote, err = PriceByWeight(10)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, quote.Price)

	quote, err = PriceByWeight(30)
	require.NoError(t, err)
	assert.Equal(t, 21000.0, quote.Price)
	assert.Equal(t, "Heavy parcel rate per kg", quote.Message)
}

func TestVolume(t *testing.T) {
	assert.Equal(t, 1000.0, Volume(10, 10, 10))
	assert.Equal(t, 0.0, Volume(0, 10, 10))
}
