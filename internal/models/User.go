package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Roles accepted in User.Role.
const (
	RolePassenger = "passenger"
	RoleDriver    = "driver"
	RoleAdmin     = "admin"
)

// User is any account in the system. Balance is the wallet: it holds the sum
// of confirmed recharges only. Paying a fare never debits it — trip cost
// accounting lives in the immutable Payment rows.
type User struct {
	gorm.Model
	Name     string          `json:"name"`
	Email    string          `json:"email" gorm:"unique"`
	Password string          `json:"-"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"` // "passenger", "driver", "admin"
	Balance  decimal.Decimal `json:"balance" gorm:"type:numeric(12,2);default:0"`

	Driver *Driver `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"driver,omitempty"`
}
