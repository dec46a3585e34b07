package salons

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonly/pkg/cache"

	"github.com/google/uuid"
)

var ErrNotSalonOwner = errors.New("salon does not belong to this business account")

// Service interface defines the contract for salon business logic
type Service interface {
	CreateSalon(ctx context.Context, ownerID uuid.UUID, req CreateSalonRequest) (*SalonResponse, error)
	GetSalon(ctx context.Context, id uuid.UUID) (*SalonResponse, error)
	UpdateSalon(ctx context.Context, id, ownerID uuid.UUID, req UpdateSalonRequest) (*SalonResponse, error)
	ListSalons(ctx context.Context, query SalonListQuery) (*PaginatedSalons, error)
	GetMySalons(ctx context.Context, ownerID uuid.UUID) ([]SalonResponse, error)

	AddOffering(ctx context.Context, salonID, ownerID uuid.UUID, req CreateOfferingRequest) (*OfferingResponse, error)
	GetOffering(ctx context.Context, id uuid.UUID) (*Offering, error)
	RemoveOffering(ctx context.Context, offeringID, ownerID uuid.UUID) error

	// GetSalonInfo exposes the subset other features need (bookings, cancellation)
	GetSalonInfo(ctx context.Context, id uuid.UUID) (*SalonInfo, error)
}

// SalonInfo is the cross-feature view of a salon
type SalonInfo struct {
	ID       uuid.UUID `json:"id"`
	OwnerID  uuid.UUID `json:"owner_id"`
	Name     string    `json:"name"`
	Timezone string    `json:"timezone"`
	Status   string    `json:"status"`
}

type service struct {
	repo  Repository
	cache cache.Service
}

// NewService creates a new salon service instance. cache may be nil.
func NewService(repo Repository, cacheService cache.Service) Service {
	return &service{
		repo:  repo,
		cache: cacheService,
	}
}

func (s *service) CreateSalon(ctx context.Context, ownerID uuid.UUID, req CreateSalonRequest) (*SalonResponse, error) {
	timezone := req.Timezone
	if timezone == "" {
		timezone = "Asia/Kolkata"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}

	salon := &Salon{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		City:        req.City,
		Timezone:    timezone,
		Phone:       req.Phone,
		Status:      StatusActive,
		ImageURL:    req.ImageURL,
		OwnerID:     ownerID,
	}

	if err := s.repo.CreateSalon(ctx, salon); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)

	resp := salon.ToResponse()
	return &resp, nil
}

func (s *service) GetSalon(ctx context.Context, id uuid.UUID) (*SalonResponse, error) {
	if s.cache != nil {
		var cached SalonResponse
		key := salonCacheKey(id)
		err := s.cache.GetOrSet(ctx, key, 10*time.Minute, func() (interface{}, error) {
			salon, err := s.repo.GetSalonByID(ctx, id)
			if err != nil {
				return nil, err
			}
			return salon.ToResponse(), nil
		}, &cached)
		if err == nil {
			return &cached, nil
		}
		if errors.Is(err, ErrSalonNotFound) {
			return nil, err
		}
		// Fall through to the repository on cache plumbing errors
	}

	salon, err := s.repo.GetSalonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := salon.ToResponse()
	return &resp, nil
}

func (s *service) UpdateSalon(ctx context.Context, id, ownerID uuid.UUID, req UpdateSalonRequest) (*SalonResponse, error) {
	salon, err := s.repo.GetSalonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, ErrNotSalonOwner
	}

	if req.Name != nil {
		salon.Name = *req.Name
	}
	if req.Description != nil {
		salon.Description = *req.Description
	}
	if req.Address != nil {
		salon.Address = *req.Address
	}
	if req.City != nil {
		salon.City = *req.City
	}
	if req.Timezone != nil {
		if _, err := time.LoadLocation(*req.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", *req.Timezone, err)
		}
		salon.Timezone = *req.Timezone
	}
	if req.Phone != nil {
		salon.Phone = *req.Phone
	}
	if req.Status != nil {
		salon.Status = SalonStatus(*req.Status)
	}
	if req.ImageURL != nil {
		salon.ImageURL = *req.ImageURL
	}

	if err := s.repo.UpdateSalon(ctx, salon); err != nil {
		return nil, err
	}

	s.invalidateSalonCache(ctx, id)

	resp := salon.ToResponse()
	return &resp, nil
}

func (s *service) ListSalons(ctx context.Context, query SalonListQuery) (*PaginatedSalons, error) {
	if query.Status == "" {
		query.Status = string(StatusActive) // public browse defaults to open salons
	}

	salons, totalCount, err := s.repo.ListSalons(ctx, query)
	if err != nil {
		return nil, err
	}

	responses := make([]SalonResponse, 0, len(salons))
	for i := range salons {
		responses = append(responses, salons[i].ToResponse())
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	return &PaginatedSalons{
		Salons:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: CalculateTotalPages(totalCount, query.Limit),
	}, nil
}

func (s *service) GetMySalons(ctx context.Context, ownerID uuid.UUID) ([]SalonResponse, error) {
	salons, err := s.repo.GetSalonsByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	responses := make([]SalonResponse, 0, len(salons))
	for i := range salons {
		responses = append(responses, salons[i].ToResponse())
	}
	return responses, nil
}

func (s *service) AddOffering(ctx context.Context, salonID, ownerID uuid.UUID, req CreateOfferingRequest) (*OfferingResponse, error) {
	salon, err := s.repo.GetSalonByID(ctx, salonID)
	if err != nil {
		return nil, err
	}
	if salon.OwnerID != ownerID {
		return nil, ErrNotSalonOwner
	}

	offering := &Offering{
		SalonID:         salonID,
		Name:            req.Name,
		Description:     req.Description,
		PricePaisa:      req.PricePaisa,
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}

	if err := s.repo.CreateOffering(ctx, offering); err != nil {
		return nil, err
	}

	s.invalidateSalonCache(ctx, salonID)

	resp := offering.ToResponse()
	return &resp, nil
}

func (s *service) GetOffering(ctx context.Context, id uuid.UUID) (*Offering, error) {
	return s.repo.GetOfferingByID(ctx, id)
}

func (s *service) RemoveOffering(ctx context.Context, offeringID, ownerID uuid.UUID) error {
	offering, err := s.repo.GetOfferingByID(ctx, offeringID)
	if err != nil {
		return err
	}

	salon, err := s.repo.GetSalonByID(ctx, offering.SalonID)
	if err != nil {
		return err
	}
	if salon.OwnerID != ownerID {
		return ErrNotSalonOwner
	}

	if err := s.repo.DeactivateOffering(ctx, offeringID); err != nil {
		return err
	}

	s.invalidateSalonCache(ctx, offering.SalonID)
	return nil
}

func (s *service) GetSalonInfo(ctx context.Context, id uuid.UUID) (*SalonInfo, error) {
	salon, err := s.repo.GetSalonByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SalonInfo{
		ID:       salon.ID,
		OwnerID:  salon.OwnerID,
		Name:     salon.Name,
		Timezone: salon.Timezone,
		Status:   string(salon.Status),
	}, nil
}

func salonCacheKey(id uuid.UUID) string {
	return "salonly:salons:" + id.String()
}

func (s *service) invalidateSalonCache(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, salonCacheKey(id))
	s.invalidateListCache(ctx)
}

func (s *service) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.DeletePattern(ctx, "salonly:salons:list:*")
}
