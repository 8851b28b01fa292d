package packages

// AddPackageRequest carries one package line posted while building an order.
// Custom dimensions take precedence when CustomSize is set.
type AddPackageRequest struct {
	Reference   string  `json:"reference" validate:"required,max=50"`
	PackageType string  `json:"package_type" validate:"required,max=50"`
	Description string  `json:"description" validate:"max=400"`
	BoxID       int64   `json:"box_id"`
	Price       float64 `json:"price" validate:"gte=0"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	Width       float64 `json:"width" validate:"gte=0"`
	Height      float64 `json:"height" validate:"gte=0"`
	Length      float64 `json:"length" validate:"gte=0"`
	ChassisNo   string  `json:"chassis_no" validate:"max=100"`
	EngineNo    string  `json:"engine_no" validate:"max=100"`

	CustomSize   bool    `json:"is_custom_size"`
	CustomWidth  float64 `json:"custom_width" validate:"gte=0"`
	CustomHeight float64 `json:"custom_height" validate:"gte=0"`
	CustomLength float64 `json:"custom_length" validate:"gte=0"`
	CustomWeight float64 `json:"custom_weight" validate:"gte=0"`
	CustomPrice  float64 `json:"custom_price" validate:"gte=0"`
	ExtraFee     float64 `json:"extra_fee" validate:"gte=0"`
}

// AddExtraFeeRequest attaches a surcharge to an existing package.
type AddExtraFeeRequest struct {
	Reference   string  `json:"reference" validate:"required,max=50"`
	PackageID   int64   `json:"package_id" validate:"required,gt=0"`
	Description string  `json:"description" validate:"required,max=255"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}

// UpdateExtraFeeRequest adjusts a surcharge and the weight recorded on its
// package.
type UpdateExtraFeeRequest struct {
	ID          int64   `json:"id" validate:"required,gt=0"`
	PackageID   int64   `json:"package_id" validate:"required,gt=0"`
	Description string  `json:"description" validate:"max=255"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
}
