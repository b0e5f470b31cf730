package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"rutapay/internal/config"
	"rutapay/internal/controllers"
	"rutapay/internal/logger"
	"rutapay/internal/middleware"
	"rutapay/internal/notify"
	"rutapay/internal/repository"
	"rutapay/internal/routes"
	"rutapay/internal/services"
)

func main() {
	// Initialize structured logging to file
	logger.Setup()

	// Connect to the database; Redis is optional (inline delivery without it)
	config.InitDB()
	rdb := config.InitRedis()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledgerRepo := repository.NewLedgerRepository(config.DB)
	notificationRepo := repository.NewNotificationRepository(config.DB)

	dispatcher := notify.NewDispatcher(rdb, notificationRepo)
	if rdb != nil {
		notify.StartWorkers(ctx, rdb, notificationRepo, 2)
	}

	paymentSvc := services.NewPaymentService(ledgerRepo, dispatcher)
	rechargeSvc := services.NewRechargeService(ledgerRepo, dispatcher)
	driverSvc := services.NewDriverService(ledgerRepo)

	r := routes.SetupRouter(routes.Handlers{
		Payments:      controllers.NewPaymentController(paymentSvc),
		Recharges:     controllers.NewRechargeController(rechargeSvc),
		Notifications: controllers.NewNotificationController(notificationRepo),
		Drivers:       controllers.NewDriverController(driverSvc),
	})

	// Wrap with CORS
	handler := middleware.EnableCORS(r)

	addr := listenAddr()
	log.Printf("🚀 Server running at %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

func listenAddr() string {
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		return v
	}
	return "0.0.0.0:8080"
}
