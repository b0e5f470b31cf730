package models

import (
	"gorm.io/gorm"
)

// Driver extends a User with role "driver". DriverCode is the short numeric
// string a passenger types at boarding time; it is unique and never reused
// (allocation is max existing code + 1, starting at 101).
type Driver struct {
	gorm.Model
	UserID       uint   `json:"user_id" gorm:"uniqueIndex"`
	User         User   `gorm:"foreignKey:UserID" json:"-"`
	DriverCode   string `json:"driver_code" gorm:"uniqueIndex;size:8"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleModel string `json:"vehicle_model"`
	IsAvailable  bool   `json:"is_available" gorm:"default:true"`
}
