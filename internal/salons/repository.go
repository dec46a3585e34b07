package salons

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrSalonNotFound = errors.New("salon not found")
var ErrOfferingNotFound = errors.New("offering not found")

// Repository interface defines the contract for salon data operations
type Repository interface {
	CreateSalon(ctx context.Context, salon *Salon) error
	GetSalonByID(ctx context.Context, id uuid.UUID) (*Salon, error)
	UpdateSalon(ctx context.Context, salon *Salon) error
	ListSalons(ctx context.Context, query SalonListQuery) ([]Salon, int64, error)
	GetSalonsByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Salon, error)

	CreateOffering(ctx context.Context, offering *Offering) error
	GetOfferingByID(ctx context.Context, id uuid.UUID) (*Offering, error)
	ListOfferings(ctx context.Context, salonID uuid.UUID) ([]Offering, error)
	DeactivateOffering(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSalon(ctx context.Context, salon *Salon) error {
	if err := r.db.WithContext(ctx).Create(salon).Error; err != nil {
		return fmt.Errorf("failed to create salon: %w", err)
	}
	return nil
}

func (r *repository) GetSalonByID(ctx context.Context, id uuid.UUID) (*Salon, error) {
	var salon Salon
	err := r.db.WithContext(ctx).
		Preload("Offerings").
		Where("id = ?", id).
		First(&salon).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSalonNotFound
		}
		return nil, fmt.Errorf("failed to get salon: %w", err)
	}
	return &salon, nil
}

func (r *repository) UpdateSalon(ctx context.Context, salon *Salon) error {
	if err := r.db.WithContext(ctx).Save(salon).Error; err != nil {
		return fmt.Errorf("failed to update salon: %w", err)
	}
	return nil
}

func (r *repository) ListSalons(ctx context.Context, query SalonListQuery) ([]Salon, int64, error) {
	var salons []Salon
	var totalCount int64

	// Set defaults
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	baseQuery := r.db.WithContext(ctx).Model(&Salon{})

	if query.Search != "" {
		like := "%" + query.Search + "%"
		baseQuery = baseQuery.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}
	if query.City != "" {
		baseQuery = baseQuery.Where("city = ?", query.City)
	}
	if query.Status != "" {
		baseQuery = baseQuery.Where("status = ?", query.Status)
	}

	if err := baseQuery.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.Limit
	err := baseQuery.
		Preload("Offerings", "active = ?", true).
		Order("created_at DESC").
		Offset(offset).
		Limit(query.Limit).
		Find(&salons).Error

	return salons, totalCount, err
}

func (r *repository) GetSalonsByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]Salon, error) {
	var salons []Salon
	err := r.db.WithContext(ctx).
		Preload("Offerings").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&salons).Error
	return salons, err
}

func (r *repository) CreateOffering(ctx context.Context, offering *Offering) error {
	if err := r.db.WithContext(ctx).Create(offering).Error; err != nil {
		return fmt.Errorf("failed to create offering: %w", err)
	}
	return nil
}

func (r *repository) GetOfferingByID(ctx context.Context, id uuid.UUID) (*Offering, error) {
	var offering Offering
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offering).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferingNotFound
		}
		return nil, fmt.Errorf("failed to get offering: %w", err)
	}
	return &offering, nil
}

func (r *repository) ListOfferings(ctx context.Context, salonID uuid.UUID) ([]Offering, error) {
	var offerings []Offering
	err := r.db.WithContext(ctx).
		Where("salon_id = ? AND active = ?", salonID, true).
		Order("name ASC").
		Find(&offerings).Error
	return offerings, err
}

func (r *repository) DeactivateOffering(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Offering{}).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferingNotFound
	}
	return nil
}

// CalculateTotalPages computes the page count for pagination responses
func CalculateTotalPages(totalCount int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(totalCount) / float64(limit)))
}
