package packages

import "time"

// Package is one line item belonging to an order by reference. Non-custom
// packages point at a catalog box; stored dimensions may be stale and are
// overlaid from the catalog at read time.
type Package struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	PackageType string    `json:"package_type"`
	Description string    `json:"description"`
	Weight      float64   `json:"weight"`
	Price       float64   `json:"price"`
	BoxID       int64     `json:"box_id"` // 0 for custom-size packages
	CustomSize  bool      `json:"custom_size"`
	Width       float64   `json:"w"`
	Height      float64   `json:"h"`
	Length      float64   `json:"l"`
	Volume      float64   `json:"volume"`
	ChassisNo   string    `json:"chassis_no"`
	EngineNo    string    `json:"engine_no"`
	CreatedAt   time.Time `json:"created_at"`
}

// ExtraFee is a surcharge attached to one package. Deleting the package
// deletes its fees.
type ExtraFee struct {
	ID          int64     `json:"id"`
	Reference   string    `json:"reference"`
	PackageID   int64     `json:"package_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaymentTotals sums package prices and extra fees separately over one
// reference. Absent rows report as 0.
type PaymentTotals struct {
	Price    float64 `json:"price"`
	ExtraFee float64 `json:"extra_fee"`
}
