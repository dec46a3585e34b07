package cancellation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"salonly/internal/bookings"
)

type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*bookings.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uuid.UUID]*bookings.Booking)}
}

func (s *fakeBookingStore) put(b *bookings.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID] = b
}

func (s *fakeBookingStore) GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

// CancelBookingTx mirrors the real repository's row-lock discipline with a
// mutex: check status, flip it, run the callback, all under one lock. A
// callback error rolls the flip back.
func (s *fakeBookingStore) CancelBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time, inTx func(tx *gorm.DB, booking *bookings.Booking) error) (*bookings.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, bookings.ErrBookingNotFound
	}
	if b.Status == bookings.StatusCancelled {
		return nil, bookings.ErrAlreadyCancelled
	}
	if !b.Status.CanBeCancelled() {
		return nil, bookings.ErrNotCancellable
	}

	prevStatus := b.Status
	b.Cancel(now)

	if inTx != nil {
		if err := inTx(nil, b); err != nil {
			b.Status = prevStatus
			b.CancelledAt = nil
			return nil, err
		}
	}

	copied := *b
	return &copied, nil
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records []*Record
}

func (r *fakeRecordRepo) CreateRecordTx(tx *gorm.DB, record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.records {
		if existing.BookingID == record.BookingID {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	r.records = append(r.records, record)
	return nil
}

func (r *fakeRecordRepo) GetRecordByBookingID(ctx context.Context, bookingID uuid.UUID) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, record := range r.records {
		if record.BookingID == bookingID {
			return record, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (r *fakeRecordRepo) GetUserRecords(ctx context.Context, userID uuid.UUID) ([]Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Record
	for _, record := range r.records {
		if record.UserID == userID {
			out = append(out, *record)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type fakeSalonDirectory struct {
	view SalonView
}

func (d *fakeSalonDirectory) GetSalonView(ctx context.Context, salonID uuid.UUID) (*SalonView, error) {
	view := d.view
	view.ID = salonID
	return &view, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	orders []RefundOrder
	err    error
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, order RefundOrder) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.orders = append(d.orders, order)
	return nil
}

func (d *fakeDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.orders)
}

type fakePublisher struct {
	mu      sync.Mutex
	notices []Notice
}

func (p *fakePublisher) PublishCancellationNotice(ctx context.Context, notice Notice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notices = append(p.notices, notice)
	return nil
}

type serviceFixture struct {
	service    Service
	store      *fakeBookingStore
	repo       *fakeRecordRepo
	dispatcher *fakeDispatcher
	publisher  *fakePublisher
	customerID uuid.UUID
	ownerID    uuid.UUID
	booking    *bookings.Booking
}

func newServiceFixture(t *testing.T, scheduledIn time.Duration) *serviceFixture {
	t.Helper()

	engine, err := NewEngine(EventPolicy())
	require.NoError(t, err)

	store := newFakeBookingStore()
	repo := &fakeRecordRepo{}
	dispatcher := &fakeDispatcher{}
	publisher := &fakePublisher{}

	customerID := uuid.New()
	ownerID := uuid.New()
	salonID := uuid.New()

	booking := &bookings.Booking{
		ID:          uuid.New(),
		UserID:      customerID,
		SalonID:     salonID,
		OfferingID:  uuid.New(),
		ScheduledAt: time.Now().UTC().Add(scheduledIn),
		AmountPaisa: 100000,
		Status:      bookings.StatusConfirmed,
		BookingRef:  "SLN-20260901-ABCDEF",
	}
	store.put(booking)

	directory := &fakeSalonDirectory{view: SalonView{
		OwnerID:  ownerID,
		Name:     "Velvet Chair",
		Timezone: "Asia/Kolkata",
	}}

	svc := NewService(engine, repo, store, directory, dispatcher, publisher, nil, time.Minute)

	return &serviceFixture{
		service:    svc,
		store:      store,
		repo:       repo,
		dispatcher: dispatcher,
		publisher:  publisher,
		customerID: customerID,
		ownerID:    ownerID,
		booking:    booking,
	}
}

func boolPtr(b bool) *bool { return &b }

func TestCommitCancellationCreatesRecord(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	record, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "customer", record.CancelledBy)
	assert.Equal(t, 50, record.FeePercentage)
	assert.Equal(t, int64(50000), record.CancellationFeePaisa)
	assert.Equal(t, int64(50000), record.RefundAmountPaisa)
	assert.Equal(t, record.CancellationFeePaisa+record.RefundAmountPaisa, f.booking.AmountPaisa)
	assert.Equal(t, 48, record.HoursBeforeAppointment)

	stored, err := f.store.GetBookingByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, stored.Status)
	assert.NotNil(t, stored.CancelledAt)

	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, 1, f.dispatcher.count())
	assert.Len(t, f.publisher.notices, 1)
}

func TestCommitCancellationBusinessActor(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	record, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.ownerID, "BUSINESS", CancelBookingRequest{
		ReasonCode:    "salon_issue",
		RequestRefund: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "business", record.CancelledBy)
}

func TestCommitCancellationRejectsStranger(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, uuid.New(), "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrNotBookingOwner)
	assert.Equal(t, 0, f.repo.count())
}

func TestCommitCancellationRejectsUnknownReason(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "no_such_reason",
		RequestRefund: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrInvalidReason)
}

func TestCommitCancellationAlreadyCancelledConflict(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	require.NoError(t, err)

	_, err = f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	assert.ErrorIs(t, err, bookings.ErrAlreadyCancelled)
	assert.Equal(t, 1, f.repo.count())
}

func TestCommitCancellationCompletedConflict(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)
	f.booking.Complete(time.Now().UTC())

	_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	assert.ErrorIs(t, err, bookings.ErrNotCancellable)
	assert.Equal(t, 0, f.repo.count())
}

func TestCommitCancellationElapsedAppointment(t *testing.T) {
	f := newServiceFixture(t, -2*time.Hour)

	_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	assert.ErrorIs(t, err, ErrAppointmentPassed)

	// The callback failure must roll the status flip back.
	stored, err := f.store.GetBookingByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusConfirmed, stored.Status)
	assert.Equal(t, 0, f.repo.count())
}

func TestConcurrentCommitsExactlyOneWinner(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
				ReasonCode:    "scheduling",
				RequestRefund: boolPtr(true),
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, bookings.ErrAlreadyCancelled):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)
	assert.Equal(t, 1, f.repo.count())
	assert.Equal(t, 1, f.dispatcher.count())
}

func TestCommitCancellationRefundDeclined(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	record, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, record.RequestRefund)
	assert.Equal(t, 0, f.dispatcher.count(), "no refund should be dispatched when declined")
}

func TestCommitCancellationNoRefundForZeroAmount(t *testing.T) {
	// 2 hours out on the event schedule forfeits the full amount.
	f := newServiceFixture(t, 2*time.Hour)

	record, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "emergency",
		RequestRefund: boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), record.RefundAmountPaisa)
	assert.Equal(t, 0, f.dispatcher.count())
}

func TestCommitCancellationSurvivesRefundFailure(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)
	f.dispatcher.err = errors.New("broker unreachable")

	record, err := f.service.CommitCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER", CancelBookingRequest{
		ReasonCode:    "changed_mind",
		RequestRefund: boolPtr(true),
	})
	require.NoError(t, err, "refund dispatch failure must not fail the cancellation")
	assert.Equal(t, int64(50000), record.RefundAmountPaisa)

	stored, err := f.store.GetBookingByID(context.Background(), f.booking.ID)
	require.NoError(t, err)
	assert.Equal(t, bookings.StatusCancelled, stored.Status)
}

func TestPreviewCancellationReportsSchedule(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	preview, err := f.service.PreviewCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER")
	require.NoError(t, err)

	assert.True(t, preview.CanCancel)
	assert.Equal(t, 50, preview.FeePercentage)
	assert.Equal(t, int64(100000), preview.CancellationFeePaisa+preview.RefundAmountPaisa)
	assert.Len(t, preview.Policy, 4)
	assert.NotEmpty(t, preview.BookingDate)
	assert.NotEmpty(t, preview.BookingTime)
}

func TestPreviewCancellationAlreadyCancelled(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)
	f.booking.Cancel(time.Now().UTC())

	preview, err := f.service.PreviewCancellation(context.Background(), f.booking.ID, f.customerID, "CUSTOMER")
	require.NoError(t, err)
	assert.False(t, preview.CanCancel)
	assert.NotEmpty(t, preview.CancelError)
}

func TestListReasons(t *testing.T) {
	f := newServiceFixture(t, 48*time.Hour)

	catalog, err := f.service.ListReasons(context.Background(), "customer")
	require.NoError(t, err)
	assert.Equal(t, "customer", catalog.Type)
	assert.NotEmpty(t, catalog.Reasons)

	catalog, err = f.service.ListReasons(context.Background(), "business")
	require.NoError(t, err)
	assert.Equal(t, "business", catalog.Type)

	codes := make(map[string]bool)
	for _, reason := range catalog.Reasons {
		codes[reason.Code] = true
	}
	assert.True(t, codes["salon_issue"])
}
