package salons

import "time"

// SalonResponse is the public view of a salon
type SalonResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Address     string             `json:"address"`
	City        string             `json:"city"`
	Timezone    string             `json:"timezone"`
	Phone       string             `json:"phone"`
	Status      SalonStatus        `json:"status"`
	ImageURL    string             `json:"image_url"`
	Offerings   []OfferingResponse `json:"offerings"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// OfferingResponse is the public view of a bookable service
type OfferingResponse struct {
	ID              string `json:"id"`
	SalonID         string `json:"salon_id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	PricePaisa      int64  `json:"price_paisa"`
	DurationMinutes int    `json:"duration_minutes"`
	Active          bool   `json:"active"`
}

// PaginatedSalons is the paginated browse response
type PaginatedSalons struct {
	Salons     []SalonResponse `json:"salons"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}
