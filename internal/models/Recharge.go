package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Recharge status values. "confirmada" and "rechazada" are terminal.
const (
	RechargePending   = "pendiente"
	RechargeConfirmed = "confirmada"
	RechargeRejected  = "rechazada"
)

// Recharge is a wallet top-up request awaiting admin approval. Applied is the
// idempotency marker: it flips to true in the same transaction that credits
// the owner's balance, so the credit can never be applied twice.
type Recharge struct {
	gorm.Model
	UserID    uint            `json:"user_id" gorm:"index"`
	User      User            `gorm:"foreignKey:UserID" json:"-"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Reference string          `json:"reference"`
	Status    string          `json:"status" gorm:"size:16;default:'pendiente';index"`
	Applied   bool            `json:"applied" gorm:"default:false"`
}

// Terminal reports whether the recharge has reached a final status.
func (r *Recharge) Terminal() bool {
	return r.Status != RechargePending
}
