package refunds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrDispatchNotFound = errors.New("refund dispatch not found")

// Repository interface defines the contract for refund outbox operations
type Repository interface {
	CreateDispatch(ctx context.Context, dispatch *Dispatch) error
	MarkDispatched(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, dispatchErr error) error
	GetRetryable(ctx context.Context, maxAttempts int, limit int) ([]Dispatch, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Dispatch, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new refund repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateDispatch(ctx context.Context, dispatch *Dispatch) error {
	if err := r.db.WithContext(ctx).Create(dispatch).Error; err != nil {
		return fmt.Errorf("failed to create refund dispatch: %w", err)
	}
	return nil
}

func (r *repository) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&Dispatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        DispatchStatusDispatched,
			"dispatched_at": now,
			"last_error":    "",
			"updated_at":    now,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark dispatch as dispatched: %w", err)
	}
	return nil
}

func (r *repository) MarkFailed(ctx context.Context, id uuid.UUID, dispatchErr error) error {
	err := r.db.WithContext(ctx).
		Model(&Dispatch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     DispatchStatusFailed,
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": dispatchErr.Error(),
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark dispatch as failed: %w", err)
	}
	return nil
}

// GetRetryable returns PENDING and FAILED rows still under the attempt
// budget, oldest first.
func (r *repository) GetRetryable(ctx context.Context, maxAttempts int, limit int) ([]Dispatch, error) {
	var dispatches []Dispatch
	err := r.db.WithContext(ctx).
		Where("status IN ?", []DispatchStatus{DispatchStatusPending, DispatchStatusFailed}).
		Where("attempts < ?", maxAttempts).
		Order("created_at ASC").
		Limit(limit).
		Find(&dispatches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get retryable dispatches: %w", err)
	}
	return dispatches, nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Dispatch, error) {
	var dispatch Dispatch
	err := r.db.WithContext(ctx).First(&dispatch, "booking_id = ?", bookingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDispatchNotFound
		}
		return nil, fmt.Errorf("failed to get refund dispatch: %w", err)
	}
	return &dispatch, nil
}
