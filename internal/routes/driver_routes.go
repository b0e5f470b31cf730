package routes

import (
	"rutapay/internal/controllers"
	"rutapay/internal/middleware"
	"rutapay/internal/models"

	"github.com/gin-gonic/gin"
)

func DriverRoutes(r *gin.Engine, h Handlers) {
	driver := r.Group("/driver")
	driver.Use(middleware.RequireAuthWithRole(models.RoleDriver))
	{
		driver.GET("/earnings", h.Payments.Earnings)
		driver.PUT("/availability", controllers.SetAvailability)
	}
}
