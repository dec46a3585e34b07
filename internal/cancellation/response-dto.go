package cancellation

import "time"

// PreviewResponse is the read-only preview of a cancellation, shown to the
// customer before they commit.
type PreviewResponse struct {
	BookingID              string `json:"booking_id"`
	BookingDate            string `json:"booking_date"`
	BookingTime            string `json:"booking_time"`
	HoursBeforeAppointment int    `json:"hours_before_appointment"`
	FeePercentage          int    `json:"fee_percentage"`
	CancellationFeePaisa   int64  `json:"cancellation_fee_paisa"`
	RefundAmountPaisa      int64  `json:"refund_amount_paisa"`
	Policy                 []Tier `json:"policy"`
	CanCancel              bool   `json:"can_cancel"`
	CancelError            string `json:"cancel_error,omitempty"`
}

// RecordResponse is the persisted cancellation returned on commit
type RecordResponse struct {
	ID                     string    `json:"id"`
	BookingID              string    `json:"booking_id"`
	CancelledBy            string    `json:"cancelled_by"`
	ReasonCode             string    `json:"reason_code"`
	AdditionalComments     string    `json:"additional_comments,omitempty"`
	HoursBeforeAppointment int       `json:"hours_before_appointment"`
	FeePercentage          int       `json:"fee_percentage"`
	CancellationFeePaisa   int64     `json:"cancellation_fee_paisa"`
	RefundAmountPaisa      int64     `json:"refund_amount_paisa"`
	RequestRefund          bool      `json:"request_refund"`
	RequestedAt            time.Time `json:"requested_at"`
	CreatedAt              time.Time `json:"created_at"`
}

// ReasonCatalogResponse groups reason codes for one requester type
type ReasonCatalogResponse struct {
	Type    string   `json:"type"`
	Reasons []Reason `json:"reasons"`
}

// ToResponse converts a Record to its response form
func (r *Record) ToResponse() RecordResponse {
	return RecordResponse{
		ID:                     r.ID.String(),
		BookingID:              r.BookingID.String(),
		CancelledBy:            string(r.CancelledBy),
		ReasonCode:             r.ReasonCode,
		AdditionalComments:     r.AdditionalComments,
		HoursBeforeAppointment: r.HoursBeforeAppointment,
		FeePercentage:          r.FeePercent,
		CancellationFeePaisa:   r.CancellationFeePaisa,
		RefundAmountPaisa:      r.RefundAmountPaisa,
		RequestRefund:          r.RequestRefund,
		RequestedAt:            r.RequestedAt,
		CreatedAt:              r.CreatedAt,
	}
}
