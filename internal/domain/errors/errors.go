package errors

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrInvalidTransition  = errors.New("order status transition not allowed")
	ErrStockConflict      = errors.New("insufficient stock")
	ErrPaymentUnconfirmed = errors.New("payment not confirmed by gateway")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGateway            = errors.New("payment gateway error")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
)
