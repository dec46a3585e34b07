package bookings

import (
	"salonly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupBookingRoutes configures all booking-related routes
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuth(), middleware.RequireRoles("CUSTOMER", "BUSINESS", "ADMIN"))
	{
		bookings.POST("", controller.CreateBooking)               // POST /api/v1/bookings
		bookings.GET("/:id", controller.GetBooking)               // GET /api/v1/bookings/:id
		bookings.POST("/:id/complete", controller.CompleteBooking) // POST /api/v1/bookings/:id/complete
	}

	users := rg.Group("/users")
	users.Use(middleware.JWTAuth(), middleware.RequireRoles("CUSTOMER", "BUSINESS", "ADMIN"))
	{
		users.GET("/bookings", controller.GetUserBookings) // GET /api/v1/users/bookings
	}

	salons := rg.Group("/salons")
	salons.Use(middleware.JWTAuth(), middleware.RequireRoles("BUSINESS", "ADMIN"))
	{
		salons.GET("/:id/bookings", controller.GetSalonBookings) // GET /api/v1/salons/:id/bookings
	}
}
