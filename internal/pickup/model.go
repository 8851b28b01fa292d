package pickup

import (
	"time"

	"github.com/shipline/shipline/internal/orders"
)

// Draft/finalized flags on pickup_request.common_status.
const (
	CommonStatusDraft     = 0
	CommonStatusFinalized = 1
)

// PickupRequest is a draft order owned by the account that created it until
// finalization promotes it into the confirmed-order pipeline.
type PickupRequest struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`

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

	ServiceType     string `json:"service_type"`
	DoorToDoor      bool   `json:"d2d"`
	PaymentMethod   string `json:"payment_method"`
	BoxID           int64  `json:"box_id"`
	RiderID         string `json:"rider_id,omitempty"`
	AgentID         int64  `json:"agent_id,omitempty"`
	AgentLocationID int64  `json:"agent_location_id,omitempty"`
	PassportNumber  string `json:"passport_number,omitempty"`
	PassportPhoto   string `json:"passport_photo,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Gift            string `json:"gift,omitempty"`

	// Guest intake extras; empty on the staff flow.
	WaybillID         string `json:"waybill_id,omitempty"`
	ParcelType        string `json:"parcel_type,omitempty"`
	ParcelDescription string `json:"parcel_des,omitempty"`

	AccNo        string    `json:"acc_no"`
	CreatedUser  string    `json:"created_user"`
	CommonStatus int       `json:"common_status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SaveResult identifies the draft after a save or finalize.
type SaveResult struct {
	ID        int64  `json:"id"`
	Reference string `json:"reference"`
}

// Contact is a previous sender surfaced by the contact autocomplete.
type Contact struct {
	SenderTel      string `json:"sender_tel"`
	PassportNumber string `json:"passport_number,omitempty"`
}

// snapshot copies the request into a pending confirmed order. Called at
// finalize time on the row as just written.
func (p *PickupRequest) snapshot(trackingNo string) orders.ConfirmedOrder {
	return orders.ConfirmedOrder{
		Reference:              p.Reference,
		PickupRequestID:        p.ID,
		ServiceType:            p.ServiceType,
		DoorToDoor:             p.DoorToDoor,
		SenderName:             p.SenderName,
		SenderTel:              p.SenderTel,
		SenderAddress:          p.SenderAddress,
		SenderCity:             p.SenderCity,
		SenderMail:             p.SenderMail,
		RecipientName:          p.RecipientName,
		RecipientName2:         p.RecipientName2,
		RecipientContact:       p.RecipientContact,
		RecipientAddress:       p.RecipientAddress,
		RecipientCity:          p.RecipientCity,
		RecipientPassportNo:    p.RecipientPassportNo,
		RecipientPassportPhoto: p.RecipientPassportPhoto,
		PaymentMethod:          p.PaymentMethod,
		BoxID:                  p.BoxID,
		RiderID:                p.RiderID,
		PassportNumber:         p.PassportNumber,
		PassportPhoto:          p.PassportPhoto,
		AgentID:                p.AgentID,
		AgentLocationID:        p.AgentLocationID,
		PostalCode:             p.PostalCode,
		Gift:                   p.Gift,
		AccNo:                  p.AccNo,
		CreatedUser:            p.CreatedUser,
		Status:                 orders.StatusPending,
		TrackingNo:             trackingNo,
	}
}
