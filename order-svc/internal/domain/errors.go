package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidQuantity   = errors.New("quantity must be between 1 and 999")
	ErrLineNotFound      = errors.New("cart line not found")
	ErrEmptyCart         = errors.New("cart is empty, nothing to order")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrNotFound          = errors.New("not found")
	ErrCartChanged       = errors.New("cart changed during checkout, review it and try again")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
