package bookings

import "time"

// CreateBookingRequest is the payload for booking an appointment
type CreateBookingRequest struct {
	SalonID     string    `json:"salon_id" binding:"required,uuid"`
	OfferingID  string    `json:"offering_id" binding:"required,uuid"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// BookingListQuery captures listing/filter parameters
type BookingListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED COMPLETED CANCELLED"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
}
