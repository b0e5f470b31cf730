package routes

import (
	ginlog "github.com/gin-contrib/logger"
	"github.com/gin-gonic/gin"

	"rutapay/internal/controllers"
)

// Handlers bundles the controllers that carry injected services.
type Handlers struct {
	Payments      *controllers.PaymentController
	Recharges     *controllers.RechargeController
	Notifications *controllers.NotificationController
	Drivers       *controllers.DriverController
}

// SetupRouter wires recovery and request logging, then every route group.
// Gin freezes each route's handler chain at registration, so the middleware
// must be attached before the groups. CORS wraps the engine in main.
func SetupRouter(h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ginlog.SetLogger())

	AuthRoutes(r)
	PassengerRoutes(r, h)
	DriverRoutes(r, h)
	AdminRoutes(r, h)
	NotificationRoutes(r, h)

	return r
}
