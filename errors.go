package vendas

import (
	"errors"
	"fmt"
)

// Error kinds returned by Ledger operations.
//
// Operations wrap them with a human readable detail, callers test the kind
// with errors.Is.
var (
	ErrValidation        = errors.New("invalid input")
	ErrDuplicateClient   = errors.New("client already registered")
	ErrDuplicateCode     = errors.New("product code already exists")
	ErrNotFound          = errors.New("not found")
	ErrProductNotFound   = errors.New("product not found in stock")
	ErrOutOfStock        = errors.New("product out of stock")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOverPayment       = errors.New("payment exceeds outstanding balance")
	ErrHasDependents     = errors.New("record has sales or payments")
	ErrPersistence       = errors.New("could not persist ledger")
)

// invalid returns a validation error about a field.
func invalid(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, fmt.Sprintf(format, args...))
}

// persistenceError wraps a store failure so that both ErrPersistence and the
// underlying cause can be matched.
func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
