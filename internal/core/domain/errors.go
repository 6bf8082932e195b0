package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrEmptyCart         = errors.New("cart is empty")

	ErrLineNotFound = fmt.Errorf("%w: no such cart line", ErrNotFound)
)

// Message returns the text shown to a user for an error returned by the core.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLineNotFound):
		return "Cart item not found"
	case errors.Is(err, ErrNotFound):
		return "Product not found"
	case errors.Is(err, ErrInsufficientStock):
		return "Not enough stock available!"
	case errors.Is(err, ErrInvalidQuantity):
		return "Quantity must be at least 1"
	case errors.Is(err, ErrEmptyCart):
		return "Cart is empty. Cannot checkout."
	case errors.Is(err, ErrValidation):
		return err.Error()
	default:
		return "Something went wrong"
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
