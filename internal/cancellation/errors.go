package cancellation

import (
	"errors"
	"fmt"
)

var (
	// ErrAppointmentPassed rejects commits after the appointment start time.
	ErrAppointmentPassed = errors.New("appointment time has already passed")

	// ErrRecordNotFound is returned when no cancellation record exists.
	ErrRecordNotFound = errors.New("cancellation record not found")

	// ErrNotBookingOwner guards against cancelling someone else's booking.
	ErrNotBookingOwner = errors.New("booking does not belong to this user")

	// ErrInvalidReason is returned for reason codes outside the catalog.
	ErrInvalidReason = errors.New("unknown cancellation reason code")
)

// ValidationError reports malformed input to the policy computation. It is
// never retried; the caller gets it back immediately.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransientStoreError wraps storage-layer contention or timeouts. Safe to
// retry with backoff; the compare-and-swap transition keeps retries
// at-most-once.
type TransientStoreError struct {
	Err error
}

func (e *TransientStoreError) Error() string {
	return fmt.Sprintf("transient store error: %v", e.Err)
}

func (e *TransientStoreError) Unwrap() error {
	return e.Err
}
