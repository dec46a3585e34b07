package cancellation

import (
	"salonly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupCancellationRoutes configures all cancellation-related routes
func SetupCancellationRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("CUSTOMER", "BUSINESS", "ADMIN"))
	{
		bookings.GET("/:id/cancellation-preview", controller.PreviewCancellation) // GET /api/v1/bookings/:id/cancellation-preview
		bookings.POST("/:id/cancel", controller.CancelBooking)                    // POST /api/v1/bookings/:id/cancel
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth(), middleware.RequireRoles("CUSTOMER", "BUSINESS", "ADMIN"))
	{
		users.GET("/cancellations", controller.GetMyCancellations) // GET /api/v1/users/cancellations
	}

	// Static catalog, no auth required
	rg.GET("/cancellation/reasons", controller.ListReasons) // GET /api/v1/cancellation/reasons?type=customer|business
}
