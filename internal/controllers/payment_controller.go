package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rutapay/internal/middleware"
	"rutapay/internal/services"
)

type PaymentController struct {
	svc services.PaymentService
}

func NewPaymentController(svc services.PaymentService) *PaymentController {
	return &PaymentController{svc: svc}
}

type payInput struct {
	DriverCode string `json:"driver_code" binding:"required"`
	RouteID    uint   `json:"route_id" binding:"required"`
}

// Pay charges one fare: the passenger types the driver's code and picks the
// route; the route's current fare is the amount.
func (pc *PaymentController) Pay(c *gin.Context) {
	var input payInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	passengerID := middleware.UserID(c)
	payment, err := pc.svc.Pay(c.Request.Context(), passengerID, input.DriverCode, input.RouteID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Payment recorded successfully.",
		"payment": payment,
	})
}

// MyPayments lists the authenticated passenger's payment history.
func (pc *PaymentController) MyPayments(c *gin.Context) {
	payments, err := pc.svc.ListForPassenger(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// Earnings lists fares collected by the authenticated driver with the total.
func (pc *PaymentController) Earnings(c *gin.Context) {
	payments, total, err := pc.svc.EarningsForDriverUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":  payments,
		"total": total,
	})
}
