package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines a customer appointment at a salon
type Booking struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"user_id"`
	SalonID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"salon_id"`
	OfferingID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"offering_id"`
	ScheduledAt time.Time  `gorm:"not null;index" json:"scheduled_at"`
	AmountPaisa int64      `gorm:"not null;check:amount_paisa >= 0" json:"amount_paisa"`
	Status      Status     `gorm:"type:varchar(20);check:status IN ('PENDING', 'CONFIRMED', 'COMPLETED', 'CANCELLED');default:'CONFIRMED'" json:"status"`
	BookingRef  string     `gorm:"unique;not null" json:"booking_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// Helper methods for booking management

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

func (b *Booking) IsCompleted() bool {
	return b.Status == StatusCompleted
}

func (b *Booking) Cancel(now time.Time) {
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
}

func (b *Booking) Complete(now time.Time) {
	b.Status = StatusCompleted
	b.CompletedAt = &now
	b.UpdatedAt = now
}
