package salons

import (
	"salonly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupSalonRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public browse routes
	salons := rg.Group("/salons")
	{
		salons.GET("", controller.ListSalons)
		salons.GET("/:id", controller.GetSalon)
	}

	// Business management routes
	manage := rg.Group("/salons")
	manage.Use(middleware.JWTAuth(), middleware.RequireRoles("BUSINESS", "ADMIN"))
	{
		manage.POST("", controller.CreateSalon)
		manage.PUT("/:id", controller.UpdateSalon)
		manage.POST("/:id/offerings", controller.AddOffering)
	}

	offerings := rg.Group("/offerings")
	offerings.Use(middleware.JWTAuth(), middleware.RequireRoles("BUSINESS", "ADMIN"))
	{
		offerings.DELETE("/:id", controller.RemoveOffering)
	}

	business := rg.Group("/business")
	business.Use(middleware.JWTAuth(), middleware.RequireRoles("BUSINESS", "ADMIN"))
	{
		business.GET("/salons", controller.GetMySalons)
	}
}
