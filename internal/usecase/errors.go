package usecase

import "errors"

var (
	ErrInvalidTransition  = errors.New("invalid reservation status transition")
	ErrSeatsUnavailable   = errors.New("seats unavailable")
	ErrCartChanged        = errors.New("cart changed during checkout")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyExists      = errors.New("already exists")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInactiveAccount    = errors.New("account is deactivated")
)
