package bookings

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// IsValid checks if the booking status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBeCancelled checks if a booking with this status can be cancelled
func (s Status) CanBeCancelled() bool {
	return s == StatusPending || s == StatusConfirmed
}

// CanBeCompleted checks if a booking with this status can be marked completed
func (s Status) CanBeCompleted() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal checks if no further transition is allowed from this status
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}
