package bookings

import (
	"errors"
	"net/http"

	"salonly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for bookings
type Controller struct {
	service Service
}

// NewController creates a new booking controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking handles POST /api/v1/bookings
func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSlotTaken):
			response.Error(ctx, http.StatusConflict, "Time slot is no longer available", nil)
		case errors.Is(err, ErrOfferingInactive), errors.Is(err, ErrSalonNotAccepting), errors.Is(err, ErrPastSchedule):
			response.Error(ctx, http.StatusUnprocessableEntity, "Booking cannot be created", err.Error())
		default:
			response.Error(ctx, http.StatusBadRequest, "Failed to create booking", err.Error())
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", booking)
}

// GetBooking handles GET /api/v1/bookings/:id
func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID, roleStr)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotBookingOwner):
			response.Error(ctx, http.StatusForbidden, "Booking does not belong to this account", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to get booking", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetUserBookings handles GET /api/v1/users/bookings
func (c *Controller) GetUserBookings(ctx *gin.Context) {
	userID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.GetUserBookings(ctx.Request.Context(), userID, query)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get bookings", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings retrieved successfully", result)
}

// GetSalonBookings handles GET /api/v1/salons/:id/bookings
func (c *Controller) GetSalonBookings(ctx *gin.Context) {
	operatorID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	salonID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid salon ID", nil)
		return
	}

	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	result, err := c.service.GetSalonBookings(ctx.Request.Context(), salonID, operatorID, query)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotSalonOperator):
			response.Error(ctx, http.StatusForbidden, "Salon does not belong to this account", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to get salon bookings", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Salon bookings retrieved successfully", result)
}

// CompleteBooking handles POST /api/v1/bookings/:id/complete
func (c *Controller) CompleteBooking(ctx *gin.Context) {
	operatorID, ok := userIDFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.CompleteBooking(ctx.Request.Context(), bookingID, operatorID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
		case errors.Is(err, ErrNotSalonOperator):
			response.Error(ctx, http.StatusForbidden, "Salon does not belong to this account", nil)
		case errors.Is(err, ErrAlreadyCancelled), errors.Is(err, ErrNotCompletable):
			response.Error(ctx, http.StatusConflict, "Booking cannot be completed in its current state", nil)
		default:
			response.Error(ctx, http.StatusInternalServerError, "Failed to complete booking", nil)
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking completed successfully", booking)
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
