package routes

import (
	"rutapay/internal/controllers"
	"rutapay/internal/middleware"

	"github.com/gin-gonic/gin"
)

func AuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/signup", controllers.SignupUser)
		auth.POST("/login", controllers.LoginUser)
	}

	r.GET("/profile", middleware.RequireAuth(), controllers.GetProfile)
	r.GET("/routes", controllers.ListActiveRoutes)
}
