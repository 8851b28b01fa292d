// Package catalog holds the predefined box-size catalog. Packages without a
// custom size reference one of these boxes for dimensions and price.
package catalog

// Box is one catalog entry. Custom boxes created during guest intake carry
// CustomSize = true and are not listed to customers.
type Box struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
	Length      float64 `json:"length"`
	Volume      float64 `json:"volume"`
	Weight      float64 `json:"weight"`
	Price       float64 `json:"price"`
	CustomSize  bool    `json:"custom_size"`
}
