package refunds

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"salonly/internal/cancellation"
	"salonly/pkg/logger"
)

// Service interface defines the contract for refund dispatch
type Service interface {
	// Dispatch writes the outbox row and attempts the Kafka publish. The
	// outbox write is the durable part; a publish failure leaves the row for
	// the reconciliation worker and is still reported as success upstream.
	Dispatch(ctx context.Context, order cancellation.RefundOrder) error

	// Redrive retries pending and failed outbox rows; returns how many were
	// successfully published.
	Redrive(ctx context.Context, batchSize int) (int, error)

	GetDispatchByBookingID(ctx context.Context, bookingID uuid.UUID) (*Dispatch, error)
}

type service struct {
	repo        Repository
	producer    Producer
	maxAttempts int
}

// NewService creates a new refund service instance. producer may be nil when
// Kafka is disabled; rows then stay PENDING until a producer-backed instance
// drains them.
func NewService(repo Repository, producer Producer, maxAttempts int) Service {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &service{
		repo:        repo,
		producer:    producer,
		maxAttempts: maxAttempts,
	}
}

var _ cancellation.RefundDispatcher = (Service)(nil)

func (s *service) Dispatch(ctx context.Context, order cancellation.RefundOrder) error {
	dispatch := &Dispatch{
		BookingID:      order.BookingID,
		CancellationID: order.CancellationID,
		UserID:         order.UserID,
		BookingRef:     order.BookingRef,
		AmountPaisa:    order.AmountPaisa,
		Status:         DispatchStatusPending,
	}

	if err := s.repo.CreateDispatch(ctx, dispatch); err != nil {
		return fmt.Errorf("failed to record refund dispatch: %w", err)
	}

	if err := s.publish(ctx, dispatch); err != nil {
		// The outbox row survives; the worker will retry. Upstream the
		// cancellation already succeeded, so this is not a failure there.
		logger.GetDefault().LogRefundDispatchFailed(ctx, order.BookingID.String(), err)
		return nil
	}

	return nil
}

func (s *service) Redrive(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 50
	}

	dispatches, err := s.repo.GetRetryable(ctx, s.maxAttempts, batchSize)
	if err != nil {
		return 0, err
	}

	published := 0
	for i := range dispatches {
		if err := s.publish(ctx, &dispatches[i]); err != nil {
			continue
		}
		published++
	}
	return published, nil
}

func (s *service) GetDispatchByBookingID(ctx context.Context, bookingID uuid.UUID) (*Dispatch, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *service) publish(ctx context.Context, dispatch *Dispatch) error {
	if s.producer == nil {
		return fmt.Errorf("refund producer not configured")
	}

	msg := &Message{
		DispatchID:     dispatch.ID,
		BookingID:      dispatch.BookingID,
		CancellationID: dispatch.CancellationID,
		UserID:         dispatch.UserID,
		BookingRef:     dispatch.BookingRef,
		AmountPaisa:    dispatch.AmountPaisa,
		Currency:       "INR",
		RequestedAt:    time.Now().UTC(),
	}

	if err := s.producer.PublishRefund(msg); err != nil {
		if markErr := s.repo.MarkFailed(ctx, dispatch.ID, err); markErr != nil {
			logger.GetDefault().ErrorWithContext(ctx, "failed to mark refund dispatch as failed", markErr, map[string]interface{}{
				"dispatch_id": dispatch.ID.String(),
			})
		}
		return err
	}

	if err := s.repo.MarkDispatched(ctx, dispatch.ID); err != nil {
		// Published but not marked; the worker may republish. The consumer
		// dedupes on dispatch_id, so this is safe.
		logger.GetDefault().ErrorWithContext(ctx, "failed to mark refund dispatch as dispatched", err, map[string]interface{}{
			"dispatch_id": dispatch.ID.String(),
		})
	}

	logger.GetDefault().LogRefundDispatched(ctx, dispatch.BookingID.String(), dispatch.AmountPaisa)
	return nil
}
