package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"rutapay/internal/config"
	"rutapay/internal/models"
)

type createRouteInput struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Fare        decimal.Decimal `json:"fare" binding:"required"`
}

// CreateRoute registers a route with its fare. Admin only.
func CreateRoute(c *gin.Context) {
	var input createRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Fare.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fare must not be negative"})
		return
	}

	route := models.Route{
		Name:        input.Name,
		Description: input.Description,
		Fare:        input.Fare,
		IsActive:    true,
	}
	if err := config.DB.Create(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create route: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": route})
}

// ListRoutes returns every route. Admin only; passengers use ListActiveRoutes.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Order("name").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// ListActiveRoutes returns routes currently available to pay on.
func ListActiveRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Where("is_active = ?", true).Order("name").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing routes: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": routes})
}

// GetRoute fetches a single route by id.
func GetRoute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var route models.Route
	if err := config.DB.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"route": route})
}

type updateRouteInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Fare        *decimal.Decimal `json:"fare"`
	IsActive    *bool            `json:"is_active"`
}

// UpdateRoute modifies a route's name, description, fare or active flag.
// A fare change only affects payments made after it; existing Payment rows
// keep their snapshot. Admin only.
func UpdateRoute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var route models.Route
	if err := config.DB.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}

	var input updateRouteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.Description != nil {
		route.Description = *input.Description
	}
	if input.Fare != nil {
		if input.Fare.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fare must not be negative"})
			return
		}
		route.Fare = *input.Fare
	}
	if input.IsActive != nil {
		route.IsActive = *input.IsActive
	}

	if err := config.DB.Save(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Route updated successfully.",
		"route":   route,
	})
}

// DeleteRoute soft-deletes a route. Existing payments keep referencing it.
func DeleteRoute(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var route models.Route
	if err := config.DB.First(&route, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}

	if err := config.DB.Delete(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully."})
}
