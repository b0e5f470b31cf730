package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Route is a fare schedule entry. The payment engine reads Fare as a snapshot
// at payment time; later fare changes never alter existing payments.
type Route struct {
	gorm.Model
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Fare        decimal.Decimal `json:"fare" gorm:"type:numeric(12,2)"`
	IsActive    bool            `json:"is_active" gorm:"default:true"`
}
