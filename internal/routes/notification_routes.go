package routes

import (
	"rutapay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func NotificationRoutes(r *gin.Engine, h Handlers) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.RequireAuth())
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread_count", h.Notifications.UnreadCount)
		notifications.PUT("/:id/read", h.Notifications.MarkRead)
	}
}
