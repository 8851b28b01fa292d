package orders

import "time"

// Status is the confirmed-order lifecycle state.
type Status int

const (
	StatusPending         Status = 0
	StatusAccepted        Status = 1
	StatusRejected        Status = 2
	StatusOfficeConfirmed Status = 4
)

// ConfirmedOrder is a staff-visible order promoted from a pickup request.
// Rows are never deleted; accept/reject only flag the status.
type ConfirmedOrder struct {
	ID              int64  `json:"id"`
	Reference       string `json:"reference"`
	PickupRequestID int64  `json:"p_request_id"`

	ServiceType string `json:"service_type"`
	DoorToDoor  bool   `json:"d2d"`

	SenderName    string `json:"sender_name"`
	SenderTel     string `json:"sender_tel"`
	SenderAddress string `json:"sender_address"`
	SenderCity    string `json:"sender_city"`
	SenderMail    string `json:"sender_mail"`

	RecipientName          string `json:"recipient_name"`
	RecipientName2         string `json:"recipient_name2,omitempty"`
	RecipientContact       string `json:"recipient_contact"`
	RecipientAddress       string `json:"recipient_address"`
	RecipientCity          string `json:"recipient_city"`
	RecipientPassportNo    string `json:"recipient_passport_no,omitempty"`
	RecipientPassportPhoto string `json:"recipient_passport_photo,omitempty"`

	PaymentMethod   string `json:"payment_method"`
	BoxID           int64  `json:"box_id"`
	RiderID         string `json:"rider_id,omitempty"`
	PassportNumber  string `json:"passport_number,omitempty"`
	PassportPhoto   string `json:"passport_photo,omitempty"`
	AgentID         int64  `json:"agent_id,omitempty"`
	AgentLocationID int64  `json:"agent_location_id,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Gift            string `json:"gift,omitempty"`

	AccNo       string `json:"acc_no"`
	CreatedUser string `json:"created_user"`

	Status     Status     `json:"status"`
	TrackingNo string     `json:"cslj_no,omitempty"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	WarehouseAt *time.Time `json:"wh_handover_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Consignee is a previous recipient surfaced by the autocomplete search.
type Consignee struct {
	Name          string `json:"recipient_name"`
	Contact       string `json:"recipient_contact"`
	Address       string `json:"recipient_address"`
	City          string `json:"recipient_city"`
	PostalCode    string `json:"postal_code,omitempty"`
	PassportNo    string `json:"recipient_passport_no,omitempty"`
	PassportPhoto string `json:"recipient_passport_photo,omitempty"`
}
