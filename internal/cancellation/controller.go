package cancellation

import (
	"errors"
	"net/http"

	"salonly/internal/bookings"
	"salonly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Controller handles HTTP requests for cancellation previews and commits
type Controller struct {
	service Service
}

// NewController creates a new cancellation controller
func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// PreviewCancellation handles GET /api/v1/bookings/:id/cancellation-preview
func (c *Controller) PreviewCancellation(ctx *gin.Context) {
	requesterID, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	preview, err := c.service.PreviewCancellation(ctx.Request.Context(), bookingID, requesterID, roleFromContext(ctx))
	if err != nil {
		c.respondError(ctx, err, "Failed to preview cancellation")
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation preview computed", preview)
}

// CancelBooking handles POST /api/v1/bookings/:id/cancel
func (c *Controller) CancelBooking(ctx *gin.Context) {
	requesterID, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid booking ID", nil)
		return
	}

	var req CancelBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Error(ctx, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	record, err := c.service.CommitCancellation(ctx.Request.Context(), bookingID, requesterID, roleFromContext(ctx), req)
	if err != nil {
		c.respondError(ctx, err, "Failed to cancel booking")
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking cancelled successfully", record)
}

// ListReasons handles GET /api/v1/cancellation/reasons
func (c *Controller) ListReasons(ctx *gin.Context) {
	reasonType := ctx.DefaultQuery("type", "customer")
	if reasonType != "customer" && reasonType != "business" {
		response.Error(ctx, http.StatusBadRequest, "Invalid reason type", "type must be customer or business")
		return
	}

	catalog, err := c.service.ListReasons(ctx.Request.Context(), reasonType)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to list reasons", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellation reasons retrieved", catalog)
}

// GetMyCancellations handles GET /api/v1/users/cancellations
func (c *Controller) GetMyCancellations(ctx *gin.Context) {
	requesterID, ok := requesterFromContext(ctx)
	if !ok {
		return
	}

	records, err := c.service.GetUserCancellations(ctx.Request.Context(), requesterID)
	if err != nil {
		response.Error(ctx, http.StatusInternalServerError, "Failed to get cancellations", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Cancellations retrieved successfully", gin.H{
		"cancellations": records,
		"count":         len(records),
	})
}

// respondError maps the error taxonomy onto HTTP statuses. Conflicts are a
// distinct 409 so the UI can show "already cancelled" instead of a retry
// prompt; validation failures never retry; transient store errors do.
func (c *Controller) respondError(ctx *gin.Context, err error, fallback string) {
	var validationErr *ValidationError
	var transientErr *TransientStoreError

	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		response.Error(ctx, http.StatusNotFound, "Booking not found", nil)
	case errors.Is(err, bookings.ErrAlreadyCancelled):
		response.Error(ctx, http.StatusConflict, "Booking is already cancelled", nil)
	case errors.Is(err, bookings.ErrNotCancellable):
		response.Error(ctx, http.StatusConflict, "Booking is no longer cancellable", nil)
	case errors.Is(err, ErrAppointmentPassed):
		response.Error(ctx, http.StatusConflict, "Appointment time has already passed", nil)
	case errors.Is(err, ErrNotBookingOwner):
		response.Error(ctx, http.StatusForbidden, "Booking does not belong to this account", nil)
	case errors.Is(err, ErrInvalidReason):
		response.Error(ctx, http.StatusUnprocessableEntity, "Unknown cancellation reason", err.Error())
	case errors.As(err, &validationErr):
		response.Error(ctx, http.StatusUnprocessableEntity, "Invalid cancellation input", validationErr.Error())
	case errors.As(err, &transientErr):
		response.Error(ctx, http.StatusServiceUnavailable, "Temporary storage problem, please retry", nil)
	default:
		response.Error(ctx, http.StatusInternalServerError, fallback, nil)
	}
}

// requesterFromContext extracts the authenticated user ID set by the JWT middleware
func requesterFromContext(ctx *gin.Context) (uuid.UUID, bool) {
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

func roleFromContext(ctx *gin.Context) string {
	role, _ := ctx.Get("user_role")
	roleStr, _ := role.(string)
	return roleStr
}
