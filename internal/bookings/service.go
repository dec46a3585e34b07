package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"salonly/pkg/logger"
)

// SalonService interface for salon-related operations (to avoid circular dependency)
type SalonService interface {
	GetOfferingInfo(ctx context.Context, offeringID uuid.UUID) (*OfferingInfo, error)
	GetSalonOwner(ctx context.Context, salonID uuid.UUID) (uuid.UUID, error)
}

// OfferingInfo represents offering details (simplified for bookings)
type OfferingInfo struct {
	ID              uuid.UUID `json:"id"`
	SalonID         uuid.UUID `json:"salon_id"`
	Name            string    `json:"name"`
	PricePaisa      int64     `json:"price_paisa"`
	DurationMinutes int       `json:"duration_minutes"`
	Active          bool      `json:"active"`
	SalonAccepting  bool      `json:"salon_accepting"`
}

var (
	ErrOfferingInactive  = errors.New("offering is not currently bookable")
	ErrSalonNotAccepting = errors.New("salon is not accepting bookings")
	ErrPastSchedule      = errors.New("scheduled time must be in the future")
	ErrNotBookingOwner   = errors.New("booking does not belong to this user")
	ErrNotSalonOperator  = errors.New("user does not operate this salon")
)

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	GetSalonBookings(ctx context.Context, salonID, operatorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error)
	CompleteBooking(ctx context.Context, bookingID, operatorID uuid.UUID) (*BookingResponse, error)
}

type service struct {
	repo         Repository
	salonService SalonService
}

// NewService creates a new booking service instance
func NewService(repo Repository, salonService SalonService) Service {
	return &service{
		repo:         repo,
		salonService: salonService,
	}
}

// CreateBooking books an appointment slot for an active offering.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	offeringID, err := uuid.Parse(req.OfferingID)
	if err != nil {
		return nil, fmt.Errorf("invalid offering ID: %w", err)
	}

	offering, err := s.salonService.GetOfferingInfo(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	if !offering.Active {
		return nil, ErrOfferingInactive
	}
	if !offering.SalonAccepting {
		return nil, ErrSalonNotAccepting
	}
	if offering.SalonID.String() != req.SalonID {
		return nil, fmt.Errorf("offering does not belong to salon %s", req.SalonID)
	}
	if !req.ScheduledAt.After(time.Now()) {
		return nil, ErrPastSchedule
	}

	bookingRef, err := s.generateBookingReference()
	if err != nil {
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		UserID:      userID,
		SalonID:     offering.SalonID,
		OfferingID:  offeringID,
		ScheduledAt: req.ScheduledAt.UTC(),
		AmountPaisa: offering.PricePaisa,
		Status:      StatusConfirmed,
		BookingRef:  bookingRef,
	}

	if err := s.repo.CreateBookingWithSlotCheck(ctx, booking, offering.DurationMinutes); err != nil {
		return nil, err
	}

	logger.GetDefault().LogBookingCreated(ctx, booking.ID.String(), booking.SalonID.String(), userID.String())

	resp := booking.ToResponse()
	return &resp, nil
}

// GetBooking returns a booking visible to its customer, the salon operator, or an admin.
func (s *service) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, requesterRole string) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.authorizeBookingAccess(ctx, booking, requesterID, requesterRole); err != nil {
		return nil, err
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	bookings, totalCount, err := s.repo.GetUserBookings(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	return s.buildPaginatedResponse(bookings, totalCount, query), nil
}

func (s *service) GetSalonBookings(ctx context.Context, salonID, operatorID uuid.UUID, query BookingListQuery) (*PaginatedBookings, error) {
	ownerID, err := s.salonService.GetSalonOwner(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if ownerID != operatorID {
		return nil, ErrNotSalonOperator
	}

	bookings, totalCount, err := s.repo.GetSalonBookings(ctx, salonID, query)
	if err != nil {
		return nil, err
	}
	return s.buildPaginatedResponse(bookings, totalCount, query), nil
}

// CompleteBooking marks a booking completed once the appointment is served.
// Only the salon operator may do this, and the transition is guarded against
// concurrent cancellations.
func (s *service) CompleteBooking(ctx context.Context, bookingID, operatorID uuid.UUID) (*BookingResponse, error) {
	booking, err := s.repo.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ownerID, err := s.salonService.GetSalonOwner(ctx, booking.SalonID)
	if err != nil {
		return nil, err
	}
	if ownerID != operatorID {
		return nil, ErrNotSalonOperator
	}

	updated, err := s.repo.CompleteBookingTx(ctx, bookingID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) authorizeBookingAccess(ctx context.Context, booking *Booking, requesterID uuid.UUID, requesterRole string) error {
	if requesterRole == "ADMIN" {
		return nil
	}
	if booking.UserID == requesterID {
		return nil
	}

	ownerID, err := s.salonService.GetSalonOwner(ctx, booking.SalonID)
	if err == nil && ownerID == requesterID {
		return nil
	}
	return ErrNotBookingOwner
}

func (s *service) buildPaginatedResponse(bookings []Booking, totalCount int64, query BookingListQuery) *PaginatedBookings {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}
}

// generateBookingReference creates a human readable reference like SLN-20260901-KXQMRT
func (s *service) generateBookingReference() (string, error) {
	timestamp := time.Now().Format("20060102")

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	randomPart := make([]byte, 6)

	for i := range randomPart {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
		if err != nil {
			return "", err
		}
		randomPart[i] = letters[num.Int64()]
	}

	return fmt.Sprintf("SLN-%s-%s", timestamp, string(randomPart)), nil
}
