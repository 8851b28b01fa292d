package pickup

// IntakeForm carries the parsed multipart intake submission. Contact numbers
// are regex-validated in the handler before the service runs.
type IntakeForm struct {
	ID         int64
	Reference  string
	TrackingNo string

	SenderName    string
	SenderTel     string
	SenderAddress string
	SenderCity    string
	SenderMail    string

	RecipientName          string
	RecipientName2         string
	RecipientContact       string
	RecipientAddress       string
	RecipientCity          string
	RecipientPassportNo    string
	RecipientPassportPhoto string

	ServiceType     string
	PaymentMethod   string
	BoxID           int64
	RiderID         string
	AgentID         int64
	AgentLocationID int64
	PassportNumber  string
	PassportPhoto   string
	PostalCode      string
	Gift            string
}

// GuestIntakeRequest is the unauthenticated intake form. Field rules mirror
// the staff-facing form the couriers hand to walk-in customers.
type GuestIntakeRequest struct {
	WaybillID        string `validate:"max=50"`
	ParcelType       string `validate:"required,max=10"`
	Description      string `validate:"max=400"`
	RecipientName    string `validate:"required,max=200"`
	RecipientContact string `validate:"required,max=20"`
	RecipientAddress string `validate:"required,max=400"`
	RecipientCity    string `validate:"required,max=200"`
	PaymentMethod    string `validate:"required,max=15"`
	BoxSize          string `validate:"required,max=6"`
	SenderName       string `validate:"required,max=200"`
	SenderContact    string `validate:"required,max=20"`
	SenderAddress    string `validate:"required,max=400"`
	SenderCity       string `validate:"required,max=200"`
	SenderEmail      string `validate:"required,email,max=200"`
	PassportNumber   string `validate:"max=50"`
	PassportPhoto    string

	CustomWidth  float64
	CustomHeight float64
	CustomLength float64
	CustomPrice  float64
}
