package services

import "errors"

var (
	// ErrInvalidInput signals a missing required field; nothing was mutated.
	ErrInvalidInput = errors.New("missing required field")

	// ErrRechargeFinalized signals an attempt to move a recharge out of a
	// terminal state into a different one (e.g. confirming a rejected
	// recharge). Re-invoking the same terminal transition is a no-op, not
	// this error.
	ErrRechargeFinalized = errors.New("recharge already finalized")

	// ErrForbidden signals that the actor may not perform the state change.
	ErrForbidden = errors.New("forbidden")

	// ErrEmailTaken signals a unique-violation on the user email.
	ErrEmailTaken = errors.New("email already in use")
)
