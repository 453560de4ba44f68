package domain

import "errors"

// Named failures the storefront core reports to its callers.
var (
	ErrCartEmpty                = errors.New("cart is empty")
	ErrUserNotFound             = errors.New("user not found")
	ErrGameNotFound             = errors.New("game not found")
	ErrOrderNotFound            = errors.New("order not found")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrInsufficientBalance      = errors.New("insufficient balance")
	ErrConcurrentUpdateConflict = errors.New("concurrent update conflict")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidCredentials       = errors.New("invalid email or password")
	ErrDuplicateUser            = errors.New("email or username already registered")
)
