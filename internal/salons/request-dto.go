package salons

// CreateSalonRequest is the payload for registering a salon
type CreateSalonRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=2000"`
	Address     string `json:"address" binding:"required,min=5,max=500"`
	City        string `json:"city" binding:"required,min=2,max=100"`
	Timezone    string `json:"timezone" binding:"omitempty,max=64"`
	Phone       string `json:"phone" binding:"omitempty,min=10,max=20"`
	ImageURL    string `json:"image_url" binding:"omitempty,url"`
}

// UpdateSalonRequest is the payload for partial salon updates
type UpdateSalonRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Address     *string `json:"address" binding:"omitempty,min=5,max=500"`
	City        *string `json:"city" binding:"omitempty,min=2,max=100"`
	Timezone    *string `json:"timezone" binding:"omitempty,max=64"`
	Phone       *string `json:"phone" binding:"omitempty,min=10,max=20"`
	Status      *string `json:"status" binding:"omitempty,oneof=active suspended closed"`
	ImageURL    *string `json:"image_url" binding:"omitempty,url"`
}

// CreateOfferingRequest is the payload for adding a bookable service
type CreateOfferingRequest struct {
	Name            string `json:"name" binding:"required,min=2,max=255"`
	Description     string `json:"description" binding:"max=2000"`
	PricePaisa      int64  `json:"price_paisa" binding:"required,min=0"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=5,max=480"`
}

// SalonListQuery captures browse/filter parameters
type SalonListQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search string `form:"search"`
	City   string `form:"city"`
	Status string `form:"status" binding:"omitempty,oneof=active suspended closed"`
}
