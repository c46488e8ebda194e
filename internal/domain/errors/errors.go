package errors

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrAlreadyPaid        = errors.New("order already paid")
	ErrGateway            = errors.New("payment gateway failure")
	ErrSignature          = errors.New("webhook signature mismatch")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
