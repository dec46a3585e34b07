package cancellation

import (
	"fmt"
	"time"
)

// PreviewInput carries everything the fee computation needs. RequestedAt is
// explicit so callers (and tests) control the clock instead of the engine
// reading wall time.
type PreviewInput struct {
	ScheduledAt     time.Time
	RequestedAt     time.Time
	PaidAmountPaisa int64
	BookingStatus   string
}

// Outcome is the computed result of a cancellation preview. It is ephemeral;
// nothing is persisted until commit.
type Outcome struct {
	HoursBeforeAppointment int
	FeePercent             int
	FeePaisa               int64
	RefundPaisa            int64
	Tier                   Tier
	CanCancel              bool
	CancelError            string
}

// Engine computes cancellation fees against a validated policy. Preview is a
// pure function: no clock reads, no I/O, safe for concurrent use.
type Engine struct {
	policy Policy
}

// NewEngine validates the policy once up front so Preview never has to.
func NewEngine(policy Policy) (*Engine, error) {
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	return &Engine{policy: policy}, nil
}

// Policy returns the schedule the engine was built with.
func (e *Engine) Policy() Policy {
	return e.policy
}

// Preview computes the fee tier, fee and refund amounts for a cancellation
// attempt at input.RequestedAt.
//
// Lead time is ceil((scheduledAt - requestedAt) / 1h), clamped at 0, and tier
// boundaries are inclusive: cancelling exactly 7 days ahead of an appointment
// under the event schedule pays no fee. The fee is rounded half up and the
// refund absorbs no rounding error: fee + refund == paid, always.
func (e *Engine) Preview(input PreviewInput) (Outcome, error) {
	if input.PaidAmountPaisa < 0 {
		return Outcome{}, &ValidationError{Field: "paidAmount", Reason: "must not be negative"}
	}
	if input.ScheduledAt.IsZero() {
		return Outcome{}, &ValidationError{Field: "scheduledAt", Reason: "must be a valid timestamp"}
	}
	if input.RequestedAt.IsZero() {
		return Outcome{}, &ValidationError{Field: "requestedAt", Reason: "must be a valid timestamp"}
	}
	if !isKnownStatus(input.BookingStatus) {
		return Outcome{}, &ValidationError{Field: "bookingStatus", Reason: fmt.Sprintf("unknown status %q", input.BookingStatus)}
	}

	hoursBefore := leadTimeHours(input.ScheduledAt, input.RequestedAt)
	tier := e.policy.TierFor(hoursBefore)

	feePaisa := roundHalfUpPercent(input.PaidAmountPaisa, tier.FeePercent)
	if feePaisa > input.PaidAmountPaisa {
		feePaisa = input.PaidAmountPaisa
	}

	outcome := Outcome{
		HoursBeforeAppointment: hoursBefore,
		FeePercent:             tier.FeePercent,
		FeePaisa:               feePaisa,
		RefundPaisa:            input.PaidAmountPaisa - feePaisa,
		Tier:                   tier,
		CanCancel:              true,
	}

	switch {
	case input.BookingStatus == "CANCELLED":
		outcome.CanCancel = false
		outcome.CancelError = "booking is already cancelled"
	case input.BookingStatus == "COMPLETED":
		outcome.CanCancel = false
		outcome.CancelError = "booking is already completed"
	case !input.ScheduledAt.After(input.RequestedAt):
		outcome.CanCancel = false
		outcome.CancelError = "appointment time has already passed"
	}

	return outcome, nil
}

// leadTimeHours reports whole hours between requestedAt and scheduledAt,
// rounding partial hours up and clamping elapsed appointments at 0.
func leadTimeHours(scheduledAt, requestedAt time.Time) int {
	diff := scheduledAt.Sub(requestedAt)
	if diff <= 0 {
		return 0
	}
	return int((diff + time.Hour - 1) / time.Hour)
}

// roundHalfUpPercent computes amount*percent/100 in integer paisa, rounding
// half up. Exact for the int64 amounts seen in practice.
func roundHalfUpPercent(amount int64, percent int) int64 {
	return (amount*int64(percent) + 50) / 100
}

func isKnownStatus(status string) bool {
	switch status {
	case "PENDING", "CONFIRMED", "COMPLETED", "CANCELLED":
		return true
	}
	return false
}
