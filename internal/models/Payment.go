package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is an immutable financial event: once inserted it is never updated
// or deleted. DriverID references the Driver row, not the driver's User row —
// the two ids are different and must not be conflated.
type Payment struct {
	gorm.Model
	PassengerID uint            `json:"passenger_id" gorm:"index"`
	Passenger   User            `gorm:"foreignKey:PassengerID" json:"-"`
	DriverID    uint            `json:"driver_id" gorm:"index"`
	Driver      Driver          `gorm:"foreignKey:DriverID" json:"-"`
	RouteID     uint            `json:"route_id" gorm:"index"`
	Route       Route           `gorm:"foreignKey:RouteID" json:"-"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}
