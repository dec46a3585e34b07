package cancellation

// CancelBookingRequest is the commit payload for POST /bookings/:id/cancel
type CancelBookingRequest struct {
	ReasonCode         string `json:"reason_code" binding:"required,min=2,max=30"`
	AdditionalComments string `json:"additional_comments" binding:"omitempty,max=500"`
	RequestRefund      *bool  `json:"request_refund" binding:"required"`
}
