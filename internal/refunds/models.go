package refunds

import (
	"time"

	"github.com/google/uuid"
)

// DispatchStatus tracks an outbox row through the refund pipeline
type DispatchStatus string

const (
	DispatchStatusPending    DispatchStatus = "PENDING"
	DispatchStatusDispatched DispatchStatus = "DISPATCHED"
	DispatchStatusFailed     DispatchStatus = "FAILED"
)

// Dispatch is the refund outbox row. One row is written per refund order in
// the same flow that cancels the booking; the Kafka publish happens after,
// and the reconciliation worker re-drives rows that never made it out.
type Dispatch struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID      uuid.UUID      `gorm:"type:uuid;index;not null" json:"booking_id"`
	CancellationID uuid.UUID      `gorm:"type:uuid;unique;not null" json:"cancellation_id"`
	UserID         uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	BookingRef     string         `gorm:"not null" json:"booking_ref"`
	AmountPaisa    int64          `gorm:"not null;check:amount_paisa > 0" json:"amount_paisa"`
	Status         DispatchStatus `gorm:"type:varchar(20);check:status IN ('PENDING', 'DISPATCHED', 'FAILED');default:'PENDING'" json:"status"`
	Attempts       int            `gorm:"default:0" json:"attempts"`
	LastError      string         `gorm:"type:text" json:"last_error,omitempty"`
	DispatchedAt   *time.Time     `json:"dispatched_at,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// TableName sets the table name for Dispatch
func (Dispatch) TableName() string {
	return "refund_dispatches"
}

// Message is the payload published to the refund topic
type Message struct {
	DispatchID     uuid.UUID `json:"dispatch_id"`
	BookingID      uuid.UUID `json:"booking_id"`
	CancellationID uuid.UUID `json:"cancellation_id"`
	UserID         uuid.UUID `json:"user_id"`
	BookingRef     string    `json:"booking_ref"`
	AmountPaisa    int64     `json:"amount_paisa"`
	Currency       string    `json:"currency"`
	RequestedAt    time.Time `json:"requested_at"`
}
