package bookings

import "time"

// BookingResponse is the public view of a booking
type BookingResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SalonID     string     `json:"salon_id"`
	OfferingID  string     `json:"offering_id"`
	BookingRef  string     `json:"booking_ref"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	AmountPaisa int64      `json:"amount_paisa"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// PaginatedBookings is the paginated listing response
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// ToResponse converts a Booking to its response form
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:          b.ID.String(),
		UserID:      b.UserID.String(),
		SalonID:     b.SalonID.String(),
		OfferingID:  b.OfferingID.String(),
		BookingRef:  b.BookingRef,
		ScheduledAt: b.ScheduledAt,
		AmountPaisa: b.AmountPaisa,
		Status:      b.Status.String(),
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
		CompletedAt: b.CompletedAt,
	}
}
