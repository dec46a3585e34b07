package refunds

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salonly/internal/cancellation"
)

type fakeRepo struct {
	mu         sync.Mutex
	dispatches map[uuid.UUID]*Dispatch
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{dispatches: make(map[uuid.UUID]*Dispatch)}
}

func (r *fakeRepo) CreateDispatch(ctx context.Context, dispatch *Dispatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	dispatch.ID = uuid.New()
	copied := *dispatch
	r.dispatches[dispatch.ID] = &copied
	return nil
}

func (r *fakeRepo) MarkDispatched(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dispatches[id]; ok {
		d.Status = DispatchStatusDispatched
	}
	return nil
}

func (r *fakeRepo) MarkFailed(ctx context.Context, id uuid.UUID, dispatchErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dispatches[id]; ok {
		d.Status = DispatchStatusFailed
		d.Attempts++
		d.LastError = dispatchErr.Error()
	}
	return nil
}

func (r *fakeRepo) GetRetryable(ctx context.Context, maxAttempts int, limit int) ([]Dispatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Dispatch
	for _, d := range r.dispatches {
		if (d.Status == DispatchStatusPending || d.Status == DispatchStatusFailed) && d.Attempts < maxAttempts {
			out = append(out, *d)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (r *fakeRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*Dispatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.dispatches {
		if d.BookingID == bookingID {
			return d, nil
		}
	}
	return nil, ErrDispatchNotFound
}

func (r *fakeRepo) statusOf(t *testing.T, bookingID uuid.UUID) DispatchStatus {
	t.Helper()
	d, err := r.GetByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	return d.Status
}

type fakeProducer struct {
	mu        sync.Mutex
	published []*Message
	err       error
}

func (p *fakeProducer) PublishRefund(msg *Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, msg)
	return nil
}

func (p *fakeProducer) Close() error { return nil }

func testOrder() cancellation.RefundOrder {
	return cancellation.RefundOrder{
		BookingID:      uuid.New(),
		CancellationID: uuid.New(),
		UserID:         uuid.New(),
		BookingRef:     "SLN-20260901-ABCDEF",
		AmountPaisa:    75000,
	}
}

func TestDispatchPublishesAndMarks(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{}
	svc := NewService(repo, producer, 5)

	order := testOrder()
	require.NoError(t, svc.Dispatch(context.Background(), order))

	require.Len(t, producer.published, 1)
	msg := producer.published[0]
	assert.Equal(t, order.BookingID, msg.BookingID)
	assert.Equal(t, int64(75000), msg.AmountPaisa)
	assert.Equal(t, "INR", msg.Currency)

	assert.Equal(t, DispatchStatusDispatched, repo.statusOf(t, order.BookingID))
}

func TestDispatchSwallowsPublishFailure(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{err: errors.New("broker down")}
	svc := NewService(repo, producer, 5)

	order := testOrder()
	require.NoError(t, svc.Dispatch(context.Background(), order),
		"publish failure must not surface; the outbox row covers it")

	d, err := repo.GetByBookingID(context.Background(), order.BookingID)
	require.NoError(t, err)
	assert.Equal(t, DispatchStatusFailed, d.Status)
	assert.Equal(t, 1, d.Attempts)
	assert.Contains(t, d.LastError, "broker down")
}

func TestRedrivePublishesRetryableRows(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{err: errors.New("broker down")}
	svc := NewService(repo, producer, 5)

	order := testOrder()
	require.NoError(t, svc.Dispatch(context.Background(), order))
	assert.Equal(t, DispatchStatusFailed, repo.statusOf(t, order.BookingID))

	// Broker comes back; the worker's next tick drains the outbox.
	producer.mu.Lock()
	producer.err = nil
	producer.mu.Unlock()

	published, err := svc.Redrive(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, DispatchStatusDispatched, repo.statusOf(t, order.BookingID))
}

func TestRedriveRespectsAttemptBudget(t *testing.T) {
	repo := newFakeRepo()
	producer := &fakeProducer{err: errors.New("broker down")}
	svc := NewService(repo, producer, 2)

	order := testOrder()
	require.NoError(t, svc.Dispatch(context.Background(), order))

	// Attempt 2 fails as well, exhausting the budget.
	published, err := svc.Redrive(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, published)

	// Out of attempts: nothing left to retry even with a healthy broker.
	producer.mu.Lock()
	producer.err = nil
	producer.mu.Unlock()

	published, err = svc.Redrive(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, 0, published)
}

func TestDispatchWithoutProducerStaysPending(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, nil, 5)

	order := testOrder()
	require.NoError(t, svc.Dispatch(context.Background(), order))
	// No producer available: the row waits for a producer-backed instance.
	assert.Equal(t, DispatchStatusPending, repo.statusOf(t, order.BookingID))
	d, err := repo.GetByBookingID(context.Background(), order.BookingID)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Attempts)
}
