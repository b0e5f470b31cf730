package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is an append-only per-user event record consumed by polling
// clients. Data carries a "type" discriminator plus event-specific fields
// (payment_id, recharge_id, amount, ...) as a weak reference — no foreign key,
// so duplicate suppression can query it without a schema join.
type Notification struct {
	gorm.Model
	UserID uint           `json:"user_id" gorm:"index"`
	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Data   datatypes.JSON `json:"data"`
	Read   bool           `json:"read" gorm:"default:false;index"`
}
