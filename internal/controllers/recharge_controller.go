package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"rutapay/internal/middleware"
	"rutapay/internal/services"
)

type RechargeController struct {
	svc services.RechargeService
}

func NewRechargeController(svc services.RechargeService) *RechargeController {
	return &RechargeController{svc: svc}
}

type rechargeRequestInput struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Reference string          `json:"reference"`
}

// Request opens a pending recharge for the authenticated passenger. The
// reference is free-text proof of payment for the admin to verify.
func (rc *RechargeController) Request(c *gin.Context) {
	var input rechargeRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := rc.svc.Request(c.Request.Context(), middleware.UserID(c), input.Amount, input.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Recharge requested, awaiting approval.",
		"recharge": rec,
	})
}

// MyRecharges lists the authenticated user's recharges, newest first.
func (rc *RechargeController) MyRecharges(c *gin.Context) {
	recs, err := rc.svc.ListForUser(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// List returns recharges for review, optionally filtered with ?status=.
// Admin only.
func (rc *RechargeController) List(c *gin.Context) {
	recs, err := rc.svc.ListByStatus(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// Confirm applies an admin approval. Safe to retry: a repeat confirm is a
// no-op reported as already confirmed.
func (rc *RechargeController) Confirm(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := rc.svc.Confirm(c.Request.Context(), id, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Recharge confirmed, balance credited."
	if result.AlreadyConfirmed {
		message = "Recharge already confirmed."
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"recharge": result.Recharge,
	})
}

type rejectInput struct {
	Reason string `json:"reason"`
}

// Reject declines a pending recharge with an optional reason. Never touches
// any balance.
func (rc *RechargeController) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input rejectInput
	if err := c.ShouldBindJSON(&input); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := rc.svc.Reject(c.Request.Context(), id, input.Reason, middleware.UserID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Recharge rejected.",
		"recharge": rec,
	})
}
