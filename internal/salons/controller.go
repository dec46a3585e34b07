package salons

import (
	"errors"
	"net/http"

	"salonly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for salons and offerings
type Controller struct {
	service Service
}

// NewController creates a new salon controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// ListSalons handles GET /api/v1/salons
func (c *Controller) ListSalons(ctx *gin.Context) {
	var query SalonListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.ListSalons(ctx.Request.Context(), query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list salons", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Salons retrieved successfully", result)
}

// GetSalon handles GET /api/v1/salons/:id
func (c *Controller) GetSalon(ctx *gin.Context) {
	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid salon ID", nil)
		return
	}

	salon, err := c.service.GetSalon(ctx.Request.Context(), salonID)
	if err != nil {
		if errors.Is(err, ErrSalonNotFound) {
			response.Error(ctx, http.StatusNotFound, "Salon not found", nil)
			return
		}
		response.Error(ctx, http.StatusInternalServerError, "Failed to get salon", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Salon retrieved successfully", salon)
}

// CreateSalon handles POST /api/v1/salons
func (c *Controller) CreateSalon(ctx *gin.Context) {
	ownerID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateSalonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	salon, err := c.service.CreateSalon(ctx.Request.Context(), ownerID, req)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Failed to create salon", err.Error())
		return
	}

	response.Success(ctx, http.StatusCreated, "Salon created successfully", salon)
}

// UpdateSalon handles PUT /api/v1/salons/:id
func (c *Controller) UpdateSalon(ctx *gin.Context) {
	ownerID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid salon ID", nil)
		return
	}

	var req UpdateSalonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	salon, err := c.service.UpdateSalon(ctx.Request.Context(), salonID, ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSalonNotFound):
			response.Error(ctx, http.StatusNotFound, "Salon not found", nil)
		case errors.Is(err, ErrNotSalonOwner):
			response.Error(ctx, http.StatusForbidden, "Salon does not belong to this account", nil)
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to update salon", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Salon updated successfully", salon)
}

// GetMySalons handles GET /api/v1/business/salons
func (c *Controller) GetMySalons(ctx *gin.Context) {
	ownerID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	salons, err := c.service.GetMySalons(ctx.Request.Context(), ownerID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get salons", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Salons retrieved successfully", gin.H{
		"salons": salons,
		"count":  len(salons),
	})
}

// AddOffering handles POST /api/v1/salons/:id/offerings
func (c *Controller) AddOffering(ctx *gin.Context) {
	ownerID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid salon ID", nil)
		return
	}

	var req CreateOfferingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	offering, err := c.service.AddOffering(ctx.Request.Context(), salonID, ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSalonNotFound):
			response.Error(ctx, http.StatusNotFound, "Salon not found", nil)
		case errors.Is(err, ErrNotSalonOwner):
			response.Error(ctx, http.StatusForbidden, "Salon does not belong to this account", nil)
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to add offering", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Offering added successfully", offering)
}

// RemoveOffering handles DELETE /api/v1/offerings/:id
func (c *Controller) RemoveOffering(ctx *gin.Context) {
	ownerID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	offeringID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid offering ID", nil)
		return
	}

	err = c.service.RemoveOffering(ctx.Request.Context(), offeringID, ownerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrOfferingNotFound), errors.Is(err, ErrSalonNotFound):
			response.Error(ctx, http.StatusNotFound, "Offering not found", nil)
		case errors.Is(err, ErrNotSalonOwner):
			response.Error(ctx, http.StatusForbidden, "Salon does not belong to this account", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to remove offering", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Offering removed successfully", nil)
}

// userIDFromContext extracts the authenticated user ID set by the JWT middleware
func userIDFromContext(ctx *gin.Context) (uuid.UUID, bool) {
	userIDInterface, exists := ctx.Get("user_id")
	if !exists {
		response.Error(ctx, http.StatusUnauthorized, "User not authenticated", nil)
		return uuid.Nil, false
	}

	userIDStr, ok := userIDInterface.(string)
	if !ok {
		response.Error(ctx, http.StatusInternalServerError, "Invalid user ID format", nil)
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid user ID", nil)
		return uuid.Nil, false
	}

	return userID, true
}
