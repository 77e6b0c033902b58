package domain

import "errors"

// Sentinel errors for domain-level error handling.
// The handler layer maps these to HTTP status codes.
var (
	ErrAlreadyInitialized     = errors.New("already_initialized")
	ErrExchangeNotInitialized = errors.New("exchange_not_initialized")
	ErrInvalidParameters      = errors.New("invalid_parameters")
	ErrInsufficientSupply     = errors.New("insufficient_supply")
	ErrInsufficientBalance    = errors.New("insufficient_balance")
	ErrIPOClosed              = errors.New("ipo_closed")
	ErrOrderNotFound          = errors.New("order_not_found")
	ErrDuplicatePriceLevel    = errors.New("duplicate_price_level")
	ErrCapacityExceeded       = errors.New("capacity_exceeded")
	ErrOverflow               = errors.New("arithmetic_overflow")
	ErrStockNotFound          = errors.New("stock_not_found")
	ErrHolderNotFound         = errors.New("holder_not_found")
	ErrWebhookNotFound        = errors.New("webhook_not_found")
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
