package domain

import "errors"

var (
	ErrMissingMetadata  = errors.New("missing checkout metadata")
	ErrEmptyCart        = errors.New("empty cart")
	ErrAmountMismatch   = errors.New("amount mismatch")
	ErrOrderExists      = errors.New("order already exists for payment")
	ErrOrderNumberTaken = errors.New("order number already taken")
)
