package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"rutapay/internal/config"
	"rutapay/internal/middleware"
	"rutapay/internal/models"
	"rutapay/internal/services"
)

type DriverController struct {
	svc services.DriverService
}

func NewDriverController(svc services.DriverService) *DriverController {
	return &DriverController{svc: svc}
}

type createDriverInput struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	Phone        string `json:"phone"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleModel string `json:"vehicle_model"`
}

// Create opens a driver account with a freshly allocated boarding code.
// Admin only.
func (dc *DriverController) Create(c *gin.Context) {
	var input createDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := dc.svc.Create(c.Request.Context(), services.CreateDriverInput{
		Name:         input.Name,
		Email:        input.Email,
		Password:     input.Password,
		Phone:        input.Phone,
		VehiclePlate: input.VehiclePlate,
		VehicleModel: input.VehicleModel,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Driver account created.",
		"driver_profile": prepareUserResponse(*user),
	})
}

// ListDrivers fetches all users with the role 'driver' and preloads their
// driver profiles. Admin only.
func ListDrivers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Where("role = ?", models.RoleDriver).
		Preload("Driver").
		Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing drivers: " + err.Error()})
		return
	}

	var driverProfiles []gin.H
	for _, user := range users {
		driverProfiles = append(driverProfiles, prepareUserResponse(user))
	}

	c.JSON(http.StatusOK, gin.H{"data": driverProfiles})
}

// GetDriver fetches a single driver by their UserID.
func GetDriver(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var user models.User
	if err := config.DB.Where("id = ? AND role = ?", userID, models.RoleDriver).
		Preload("Driver").
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver user not found."})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error: " + err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"driver_profile": prepareUserResponse(user)})
}

type availabilityInput struct {
	IsAvailable *bool `json:"is_available" binding:"required"`
}

// SetAvailability lets the authenticated driver toggle their own
// is_available flag.
func SetAvailability(c *gin.Context) {
	userID := middleware.UserID(c)

	var driver models.Driver
	if err := config.DB.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Driver profile not found for the authenticated user."})
			return
		}
		logrus.WithError(err).Error("Database error fetching driver profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch driver profile."})
		return
	}

	var input availabilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	driver.IsAvailable = *input.IsAvailable
	if err := config.DB.Save(&driver).Error; err != nil {
		logrus.WithError(err).Error("Failed to save driver availability")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update availability."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Availability updated successfully.",
		"driver":  driver,
	})
}

// Delete removes a driver by their UserID. The user row and the driver
// profile are retired together; the boarding code is never reallocated.
// Admin only.
func (dc *DriverController) Delete(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := dc.svc.Delete(c.Request.Context(), userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Driver and associated user account deleted successfully."})
}
