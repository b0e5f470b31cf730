package repository

import "errors"

// Sentinel errors surfaced by the stores. Controllers map these to HTTP
// statuses; anything else is treated as a transaction failure and reported
// as a generic server error after a full rollback.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDriverNotFound       = errors.New("driver not found")
	ErrRouteNotFound        = errors.New("route not found")
	ErrRechargeNotFound     = errors.New("recharge not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrInvalidAmount        = errors.New("amount must be greater than zero")
)
