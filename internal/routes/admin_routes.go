package routes

import (
	"rutapay/internal/controllers"
	"rutapay/internal/middleware"
	"rutapay/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine, h Handlers) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuthWithRole(models.RoleAdmin))
	{
		admin.GET("/passengers", controllers.ListPassengers)

		admin.POST("/drivers", h.Drivers.Create)
		admin.GET("/drivers", controllers.ListDrivers)
		admin.GET("/drivers/:id", controllers.GetDriver)
		admin.DELETE("/drivers/:id", h.Drivers.Delete)

		admin.POST("/routes", controllers.CreateRoute)
		admin.GET("/routes", controllers.ListRoutes)
		admin.GET("/routes/:id", controllers.GetRoute)
		admin.PUT("/routes/:id", controllers.UpdateRoute)
		admin.DELETE("/routes/:id", controllers.DeleteRoute)

		admin.GET("/recharges", h.Recharges.List)
		admin.POST("/recharges/:id/confirm", h.Recharges.Confirm)
		admin.POST("/recharges/:id/reject", h.Recharges.Reject)
	}
}
