package cancellation

import (
	"time"

	"github.com/google/uuid"
)

// Actor identifies who initiated a cancellation
type Actor string

const (
	ActorCustomer Actor = "customer"
	ActorBusiness Actor = "business"
	ActorSystem   Actor = "system"
)

// IsValid checks if the actor value is known
func (a Actor) IsValid() bool {
	switch a {
	case ActorCustomer, ActorBusiness, ActorSystem:
		return true
	}
	return false
}

// Record is the immutable cancellation row created atomically with the
// booking's status transition. The unique booking_id constraint backs the
// at-most-one-record guarantee.
type Record struct {
	ID                     uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID              uuid.UUID `gorm:"type:uuid;unique;not null" json:"booking_id"`
	UserID                 uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	CancelledBy            Actor     `gorm:"type:varchar(20);check:cancelled_by IN ('customer', 'business', 'system');not null" json:"cancelled_by"`
	ReasonCode             string    `gorm:"type:varchar(30);not null" json:"reason_code"`
	AdditionalComments     string    `gorm:"type:text" json:"additional_comments,omitempty"`
	HoursBeforeAppointment int       `gorm:"not null" json:"hours_before_appointment"`
	FeePercent             int       `gorm:"not null" json:"fee_percentage"`
	CancellationFeePaisa   int64     `gorm:"not null" json:"cancellation_fee_paisa"`
	RefundAmountPaisa      int64     `gorm:"not null" json:"refund_amount_paisa"`
	RequestRefund          bool      `gorm:"default:true" json:"request_refund"`
	RequestedAt            time.Time `gorm:"not null" json:"requested_at"`
	CreatedAt              time.Time `json:"created_at"`
}

// TableName sets the table name for Record
func (Record) TableName() string {
	return "cancellations"
}
