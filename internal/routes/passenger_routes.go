package routes

import (
	"rutapay/internal/middleware"
	"rutapay/internal/models"

	"github.com/gin-gonic/gin"
)

func PassengerRoutes(r *gin.Engine, h Handlers) {
	passenger := r.Group("/passenger")
	passenger.Use(middleware.RequireAuthWithRole(models.RolePassenger))
	{
		passenger.POST("/payments", h.Payments.Pay)
		passenger.GET("/payments", h.Payments.MyPayments)
		passenger.POST("/recharges", h.Recharges.Request)
		passenger.GET("/recharges", h.Recharges.MyRecharges)
	}
}
