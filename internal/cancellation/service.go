package cancellation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"salonly/internal/bookings"
	"salonly/pkg/cache"
	"salonly/pkg/logger"
)

// BookingStore is the slice of the booking repository the cancellation flow
// needs: the current state read and the guarded cancel transition.
// bookings.Repository satisfies it.
type BookingStore interface {
	GetBookingByID(ctx context.Context, id uuid.UUID) (*bookings.Booking, error)
	CancelBookingTx(ctx context.Context, bookingID uuid.UUID, now time.Time, inTx func(tx *gorm.DB, booking *bookings.Booking) error) (*bookings.Booking, error)
}

// SalonDirectory resolves salon ownership and locale (to avoid a circular
// dependency on the salons package).
type SalonDirectory interface {
	GetSalonView(ctx context.Context, salonID uuid.UUID) (*SalonView, error)
}

// SalonView is the subset of salon data the cancellation flow uses
type SalonView struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Name     string    `json:"name"`
	Timezone string    `json:"timezone"`
}

// RefundDispatcher hands a refund order to the asynchronous refund pipeline.
// Dispatch failures never fail the cancellation; they are logged and left to
// the reconciliation worker.
type RefundDispatcher interface {
	Dispatch(ctx context.Context, order RefundOrder) error
}

// RefundOrder describes one refund to be pushed to the payment side
type RefundOrder struct {
	BookingID      uuid.UUID `json:"booking_id"`
	CancellationID uuid.UUID `json:"cancellation_id"`
	UserID         uuid.UUID `json:"user_id"`
	BookingRef     string    `json:"booking_ref"`
	AmountPaisa    int64     `json:"amount_paisa"`
}

// NoticePublisher informs the business side of a cancelled booking.
// Fire-and-forget, same as refunds.
type NoticePublisher interface {
	PublishCancellationNotice(ctx context.Context, notice Notice) error
}

// Notice is the cancellation event consumed by the notification pipeline
type Notice struct {
	BookingID   uuid.UUID `json:"booking_id"`
	BookingRef  string    `json:"booking_ref"`
	SalonID     uuid.UUID `json:"salon_id"`
	CancelledBy string    `json:"cancelled_by"`
	ReasonCode  string    `json:"reason_code"`
	RefundPaisa int64     `json:"refund_paisa"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// Service interface defines the contract for cancellation business logic
type Service interface {
	PreviewCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string) (*PreviewResponse, error)
	CommitCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string, req CancelBookingRequest) (*RecordResponse, error)
	ListReasons(ctx context.Context, reasonType string) (*ReasonCatalogResponse, error)
	GetUserCancellations(ctx context.Context, userID uuid.UUID) ([]RecordResponse, error)
}

type service struct {
	engine     *Engine
	repo       Repository
	store      BookingStore
	salons     SalonDirectory
	refunds    RefundDispatcher
	notices    NoticePublisher
	cache      cache.Service
	reasonsTTL time.Duration
}

// NewService creates a new cancellation service instance. refunds, notices
// and cache may be nil in reduced deployments; the flow degrades to
// synchronous-only behavior without them.
func NewService(engine *Engine, repo Repository, store BookingStore, salons SalonDirectory, refunds RefundDispatcher, notices NoticePublisher, cacheService cache.Service, reasonsTTL time.Duration) Service {
	return &service{
		engine:     engine,
		repo:       repo,
		store:      store,
		salons:     salons,
		refunds:    refunds,
		notices:    notices,
		cache:      cacheService,
		reasonsTTL: reasonsTTL,
	}
}

// PreviewCancellation computes the fee and refund the requester would see if
// they cancelled right now. Read-only; safe to call repeatedly.
func (s *service) PreviewCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string) (*PreviewResponse, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	salon, err := s.salons.GetSalonView(ctx, booking.SalonID)
	if err != nil {
		return nil, err
	}

	if _, err := s.resolveActor(booking, salon, requesterID, requesterRole); err != nil {
		return nil, err
	}

	outcome, err := s.engine.Preview(PreviewInput{
		ScheduledAt:     booking.ScheduledAt,
		RequestedAt:     time.Now().UTC(),
		PaidAmountPaisa: booking.AmountPaisa,
		BookingStatus:   booking.Status.String(),
	})
	if err != nil {
		return nil, err
	}

	return s.buildPreviewResponse(booking, salon, outcome), nil
}

// CommitCancellation performs the authoritative cancellation: it recomputes
// the outcome at commit time (preview numbers are never trusted), then runs
// the booking's compare-and-swap transition and the record insert in one
// transaction. A concurrent cancel or completion loses the race cleanly and
// surfaces as a conflict.
func (s *service) CommitCancellation(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string, req CancelBookingRequest) (*RecordResponse, error) {
	booking, err := s.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	salon, err := s.salons.GetSalonView(ctx, booking.SalonID)
	if err != nil {
		return nil, err
	}

	actor, err := s.resolveActor(booking, salon, requesterID, requesterRole)
	if err != nil {
		return nil, err
	}

	if !IsValidReason(req.ReasonCode, actor) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReason, req.ReasonCode)
	}

	requestedAt := time.Now().UTC()
	requestRefund := req.RequestRefund == nil || *req.RequestRefund

	var record *Record
	cancelled, err := s.store.CancelBookingTx(ctx, bookingID, requestedAt, func(tx *gorm.DB, locked *bookings.Booking) error {
		// Recompute against the row we actually locked. The status check has
		// already passed inside the transaction, so only the time guard can
		// still reject here.
		outcome, err := s.engine.Preview(PreviewInput{
			ScheduledAt:     locked.ScheduledAt,
			RequestedAt:     requestedAt,
			PaidAmountPaisa: locked.AmountPaisa,
			BookingStatus:   bookings.StatusConfirmed.String(),
		})
		if err != nil {
			return err
		}
		if !outcome.CanCancel {
			return ErrAppointmentPassed
		}

		record = &Record{
			BookingID:              locked.ID,
			UserID:                 locked.UserID,
			CancelledBy:            actor,
			ReasonCode:             req.ReasonCode,
			AdditionalComments:     req.AdditionalComments,
			HoursBeforeAppointment: outcome.HoursBeforeAppointment,
			FeePercent:             outcome.FeePercent,
			CancellationFeePaisa:   outcome.FeePaisa,
			RefundAmountPaisa:      outcome.RefundPaisa,
			RequestRefund:          requestRefund,
			RequestedAt:            requestedAt,
		}
		return s.repo.CreateRecordTx(tx, record)
	})
	if err != nil {
		return nil, err
	}

	log := logger.GetDefault()
	log.LogBookingCancelled(ctx, bookingID.String(), record.CancellationFeePaisa, record.RefundAmountPaisa)

	// Refund dispatch and the business notice are fire-and-forget: the
	// cancellation already committed and must not be rolled back or reported
	// as failed because a downstream system is down.
	if s.refunds != nil && requestRefund && record.RefundAmountPaisa > 0 {
		order := RefundOrder{
			BookingID:      bookingID,
			CancellationID: record.ID,
			UserID:         record.UserID,
			BookingRef:     cancelled.BookingRef,
			AmountPaisa:    record.RefundAmountPaisa,
		}
		if err := s.refunds.Dispatch(ctx, order); err != nil {
			log.LogRefundDispatchFailed(ctx, bookingID.String(), err)
		} else {
			log.LogRefundDispatched(ctx, bookingID.String(), record.RefundAmountPaisa)
		}
	}

	if s.notices != nil {
		notice := Notice{
			BookingID:   bookingID,
			BookingRef:  cancelled.BookingRef,
			SalonID:     cancelled.SalonID,
			CancelledBy: string(actor),
			ReasonCode:  record.ReasonCode,
			RefundPaisa: record.RefundAmountPaisa,
			CancelledAt: requestedAt,
		}
		if err := s.notices.PublishCancellationNotice(ctx, notice); err != nil {
			log.ErrorWithContext(ctx, "failed to publish cancellation notice", err, map[string]interface{}{
				"booking_id": bookingID.String(),
			})
		}
	}

	resp := record.ToResponse()
	return &resp, nil
}

// ListReasons serves the static reason catalog, cached per requester type.
func (s *service) ListReasons(ctx context.Context, reasonType string) (*ReasonCatalogResponse, error) {
	if reasonType != "business" {
		reasonType = "customer"
	}

	build := func() (interface{}, error) {
		return &ReasonCatalogResponse{
			Type:    reasonType,
			Reasons: ReasonsFor(reasonType),
		}, nil
	}

	if s.cache == nil {
		catalog, _ := build()
		return catalog.(*ReasonCatalogResponse), nil
	}

	var catalog ReasonCatalogResponse
	key := fmt.Sprintf("salonly:cancellation:reasons:%s", reasonType)
	if err := s.cache.GetOrSet(ctx, key, s.reasonsTTL, build, &catalog); err != nil {
		// Catalog is static; never fail the request over a cache problem.
		fallback, _ := build()
		return fallback.(*ReasonCatalogResponse), nil
	}
	return &catalog, nil
}

func (s *service) GetUserCancellations(ctx context.Context, userID uuid.UUID) ([]RecordResponse, error) {
	records, err := s.repo.GetUserRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, records[i].ToResponse())
	}
	return responses, nil
}

// resolveActor decides who is cancelling: the booking's customer, the salon's
// owner, or an admin acting as the system. Anyone else is rejected.
func (s *service) resolveActor(booking *bookings.Booking, salon *SalonView, requesterID uuid.UUID, requesterRole string) (Actor, error) {
	switch {
	case booking.UserID == requesterID:
		return ActorCustomer, nil
	case salon.OwnerID == requesterID:
		return ActorBusiness, nil
	case requesterRole == "ADMIN":
		return ActorSystem, nil
	default:
		return "", ErrNotBookingOwner
	}
}

func (s *service) buildPreviewResponse(booking *bookings.Booking, salon *SalonView, outcome Outcome) *PreviewResponse {
	scheduled := booking.ScheduledAt
	if loc, err := time.LoadLocation(salon.Timezone); err == nil {
		scheduled = scheduled.In(loc)
	}

	return &PreviewResponse{
		BookingID:              booking.ID.String(),
		BookingDate:            scheduled.Format("2006-01-02"),
		BookingTime:            scheduled.Format("3:04 PM"),
		HoursBeforeAppointment: outcome.HoursBeforeAppointment,
		FeePercentage:          outcome.FeePercent,
		CancellationFeePaisa:   outcome.FeePaisa,
		RefundAmountPaisa:      outcome.RefundPaisa,
		Policy:                 s.engine.Policy().Tiers,
		CanCancel:              outcome.CanCancel,
		CancelError:            outcome.CancelError,
	}
}
