package salons

type SalonStatus string

const (
	StatusActive    SalonStatus = "active"
	StatusSuspended SalonStatus = "suspended"
	StatusClosed    SalonStatus = "closed"
)

// IsValid checks if the salon status is valid
func (s SalonStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusClosed:
		return true
	}
	return false
}

// AcceptsBookings checks if a salon with this status can take new bookings
func (s SalonStatus) AcceptsBookings() bool {
	return s == StatusActive
}
