package cancellation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for cancellation data operations
type Repository interface {
	// CreateRecordTx inserts the record inside a caller-owned transaction so
	// it commits or rolls back together with the booking status transition.
	CreateRecordTx(tx *gorm.DB, record *Record) error

	GetRecordByBookingID(ctx context.Context, bookingID uuid.UUID) (*Record, error)
	GetUserRecords(ctx context.Context, userID uuid.UUID) ([]Record, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new cancellation repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRecordTx(tx *gorm.DB, record *Record) error {
	if err := tx.Create(record).Error; err != nil {
		return fmt.Errorf("failed to create cancellation record: %w", err)
	}
	return nil
}

func (r *repository) GetRecordByBookingID(ctx context.Context, bookingID uuid.UUID) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).First(&record, "booking_id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get cancellation record: %w", err)
	}
	return &record, nil
}

func (r *repository) GetUserRecords(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	var records []Record
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user cancellations: %w", err)
	}
	return records, nil
}
