package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidStatus = errors.New("status cannot be set manually")
	ErrDuplicate     = errors.New("duplicate resource")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrConflict      = errors.New("conflict with current state")
	ErrOverpayment   = errors.New("payment exceeds balance due")
)
