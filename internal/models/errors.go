// internal/models/errors.go
package models

import "errors"

var (
	ErrInvalidPrice      = errors.New("price must be non-negative with at most 2 decimal places and 9 digits")
	ErrBeatmakerRequired = errors.New("beat must belong to a beatmaker")
	ErrTitleRequired     = errors.New("beat title is required")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrUnknownStatus     = errors.New("unknown order status")
	ErrMissingReferent   = errors.New("cart product referent is missing")
	ErrCartLocked        = errors.New("cart is already part of an order")
)
