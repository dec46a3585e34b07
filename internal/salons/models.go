package salons

import (
	"time"

	"github.com/google/uuid"
)

// Salon represents a registered salon/beauty business
type Salon struct {
	ID          uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string      `json:"name" gorm:"not null;size:255"`
	Description string      `json:"description" gorm:"type:text"`
	Address     string      `json:"address" gorm:"not null;size:500"`
	City        string      `json:"city" gorm:"not null;size:100;index"`
	Timezone    string      `json:"timezone" gorm:"not null;size:64;default:'Asia/Kolkata'"`
	Phone       string      `json:"phone" gorm:"size:20"`
	Status      SalonStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	ImageURL    string      `json:"image_url" gorm:"size:500"`

	Offerings []Offering `json:"offerings,omitempty" gorm:"foreignKey:SalonID;constraint:OnDelete:CASCADE;"`

	OwnerID   uuid.UUID `json:"owner_id" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Offering represents a bookable service of a salon (haircut, facial, ...)
type Offering struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SalonID         uuid.UUID `json:"salon_id" gorm:"type:uuid;not null;index"`
	Name            string    `json:"name" gorm:"not null;size:255"`
	Description     string    `json:"description" gorm:"type:text"`
	PricePaisa      int64     `json:"price_paisa" gorm:"not null;check:price_paisa >= 0"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null;check:duration_minutes > 0"`
	Active          bool      `json:"active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Salon) TableName() string {
	return "salons"
}

// TableName specifies the table name for GORM
func (Offering) TableName() string {
	return "offerings"
}

// Helper method to convert Salon to SalonResponse
func (s *Salon) ToResponse() SalonResponse {
	offerings := make([]OfferingResponse, 0, len(s.Offerings))
	for i := range s.Offerings {
		offerings = append(offerings, s.Offerings[i].ToResponse())
	}

	return SalonResponse{
		ID:          s.ID.String(),
		Name:        s.Name,
		Description: s.Description,
		Address:     s.Address,
		City:        s.City,
		Timezone:    s.Timezone,
		Phone:       s.Phone,
		Status:      s.Status,
		ImageURL:    s.ImageURL,
		Offerings:   offerings,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// Helper method to convert Offering to OfferingResponse
func (o *Offering) ToResponse() OfferingResponse {
	return OfferingResponse{
		ID:              o.ID.String(),
		SalonID:         o.SalonID.String(),
		Name:            o.Name,
		Description:     o.Description,
		PricePaisa:      o.PricePaisa,
		DurationMinutes: o.DurationMinutes,
		Active:          o.Active,
	}
}
