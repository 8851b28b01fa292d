package customers

// Customer is one account in the customer directory.
type Customer struct {
	ID            int64  `json:"id"`
	AccNo         string `json:"acc_no"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Address       string `json:"address"`
	SLAddress     string `json:"sl_address"`
	NIC           string `json:"nic"`
	Phone         string `json:"phone"`
	Mobile        string `json:"mobile"`
	Email         string `json:"email"`
	City          string `json:"city"`
	Zipcode       string `json:"zipcode"`
	SLZipcode     string `json:"sl_zipcode"`
	Passport      string `json:"passport"`
	PassportPhoto string `json:"passport_photo,omitempty"`
	ProfilePhoto  string `json:"prof_pic,omitempty"`
}

// Summary is the trimmed row returned by the directory search.
type Summary struct {
	FullName      string `json:"full_name"`
	AccNo         string `json:"acc_no"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Passport      string `json:"passport"`
	PassportPhoto string `json:"passport_photo,omitempty"`
	City          string `json:"city"`
	Email         string `json:"email"`
}

// Posting is the single account-ledger row written when a customer account is
// first allocated. The 1-2-5 code path places it under trade receivables.
type Posting struct {
	PCode int64
	PName string
	BCode int
	TCode int
	HCode int
	LCode string
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	FullName      string
	Address       string
	Passport      string
	Phone         string
	City          string
	Zipcode       string
	Email         string
	NIC           string
	SLAddress     string
	SLZipcode     string
	Mobile        string
	PassportPhoto string
	ProfilePhoto  string
}
