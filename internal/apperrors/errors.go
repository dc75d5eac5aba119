// Package apperrors defines the domain error taxonomy. Services wrap these
// sentinels with fmt.Errorf and %w; handlers classify with errors.Is and map
// to HTTP status codes at the request boundary.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation covers missing or malformed fields and unknown enum values.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers absent orders, payments, items, users and sellers.
	ErrNotFound = errors.New("not found")
	// ErrForbidden covers role or ownership mismatches.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthorized covers bad credentials and failed verification matches.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict covers duplicate resources and already-paid orders.
	ErrConflict = errors.New("conflict")
	// ErrInvalidState covers lifecycle precondition failures (wrong order status).
	ErrInvalidState = errors.New("invalid state")
	// ErrGatewayConfig is returned when payment gateway credentials are absent.
	ErrGatewayConfig = errors.New("payment gateway not configured")
	// ErrGateway is returned when a remote payment gateway call fails.
	ErrGateway = errors.New("payment gateway error")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// Forbiddenf wraps ErrForbidden with a formatted message.
func Forbiddenf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrForbidden}, args...)...)
}

// Unauthorizedf wraps ErrUnauthorized with a formatted message.
func Unauthorizedf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrUnauthorized}, args...)...)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrConflict}, args...)...)
}

// InvalidStatef wraps ErrInvalidState with a formatted message.
func InvalidStatef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidState}, args...)...)
}

// StatusOf maps a domain error to its HTTP status code. Unclassified errors
// map to 500.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidState):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrGatewayConfig):
		return fiber.StatusInternalServerError
	case errors.Is(err, ErrGateway):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
