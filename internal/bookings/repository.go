package bookings

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrNotCancellable   = errors.New("booking is not in a cancellable state")
	ErrNotCompletable   = errors.New("booking is not in a completable state")
	ErrSlotTaken        = errors.New("requested time slot is no longer available")
)

type Repository interface {
	// Core booking operations
	CreateBookingWithSlotCheck(ctx context.Context, booking *Booking, durationMinutes int) error
	GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// User and salon listings
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)
	GetSalonBookings(ctx context.Context, salonID uuid.UUID, query BookingListQuery) ([]Booking, int64, error)

	// Guarded transitions. Both lock the booking row (SELECT ... FOR UPDATE)
	// and only transition when the observed status still allows it, so two
	// racing writers resolve to exactly one winner.
	CancelBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time, inTx func(tx *gorm.DB, booking *Booking) error) (*Booking, error)
	CompleteBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time) (*Booking, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateBookingWithSlotCheck creates a booking atomically, rejecting overlapping
// active bookings for the same offering.
func (r *repository) CreateBookingWithSlotCheck(ctx context.Context, booking *Booking, durationMinutes int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		slotEnd := booking.ScheduledAt.Add(time.Duration(durationMinutes) * time.Minute)
		slotStart := booking.ScheduledAt.Add(-time.Duration(durationMinutes) * time.Minute)

		// Lock conflicting rows so two concurrent requests for the same slot
		// serialize on the same range.
		var conflicts int64
		err := tx.Model(&Booking{}).
			Set("gorm:query_option", "FOR UPDATE").
			Where("offering_id = ?", booking.OfferingID).
			Where("status IN ?", []Status{StatusPending, StatusConfirmed}).
			Where("scheduled_at > ? AND scheduled_at < ?", slotStart, slotEnd).
			Count(&conflicts).Error
		if err != nil {
			return fmt.Errorf("failed to check slot availability: %w", err)
		}

		if conflicts > 0 {
			return ErrSlotTaken
		}

		if err := tx.Create(booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return nil
	})
}

func (r *repository) GetBookingByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *repository) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("user_id = ?", userID)

	return r.paginate(baseQuery, query)
}

func (r *repository) GetSalonBookings(ctx context.Context, salonID uuid.UUID, query BookingListQuery) ([]Booking, int64, error) {
	baseQuery := r.db.WithContext(ctx).
		Model(&Booking{}).
		Where("salon_id = ?", salonID)

	return r.paginate(baseQuery, query)
}

// CancelBookingTx performs the compare-and-swap cancellation transition.
// The booking row is locked for update; if its status no longer allows
// cancellation the transaction aborts with ErrAlreadyCancelled or
// ErrNotCancellable. inTx runs inside the same transaction so the caller can
// insert its cancellation record atomically with the status flip.
func (r *repository) CancelBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time, inTx func(tx *gorm.DB, booking *Booking) error) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", bookingID).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		if !booking.Status.CanBeCancelled() {
			return ErrNotCancellable
		}

		booking.Cancel(now)

		err = tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       StatusCancelled,
				"cancelled_at": now,
				"updated_at":   now,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}

		if inTx != nil {
			if err := inTx(tx, &booking); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// CompleteBookingTx performs the completed transition under the same row lock
// discipline, so it cannot race a concurrent cancellation.
func (r *repository) CompleteBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time) (*Booking, error) {
	var booking Booking

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Set("gorm:query_option", "FOR UPDATE").
			Where("id = ?", bookingID).
			First(&booking).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to lock booking: %w", err)
		}

		if booking.Status == StatusCancelled {
			return ErrAlreadyCancelled
		}
		if !booking.Status.CanBeCompleted() {
			return ErrNotCompletable
		}

		booking.Complete(now)

		return tx.Model(&Booking{}).
			Where("id = ?", bookingID).
			Updates(map[string]interface{}{
				"status":       StatusCompleted,
				"completed_at": now,
				"updated_at":   now,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

func (r *repository) paginate(baseQuery *gorm.DB, query BookingListQuery) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery = applyFilters(baseQuery, query)

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Order("scheduled_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&bookings).Error

	return bookings, totalCount, err
}

// applyFilters applies query filters to the GORM query
func applyFilters(query *gorm.DB, filters BookingListQuery) *gorm.DB {
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}

	if filters.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", filters.DateFrom); err == nil {
			query = query.Where("scheduled_at >= ?", dateFrom)
		}
	}

	if filters.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", filters.DateTo); err == nil {
			// Add 23:59:59 to include the entire day
			dateTo = dateTo.Add(23*time.Hour + 59*time.Minute + 59*time.Second)
			query = query.Where("scheduled_at <= ?", dateTo)
		}
	}

	return query
}

// CalculateTotalPages computes the page count for pagination responses
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
