package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStockAnomaly      = errors.New("stock anomaly")
)

var (
	ErrItemNotFound   = fmt.Errorf("item %w", ErrNotFound)
	ErrOrderNotFound  = fmt.Errorf("order %w", ErrNotFound)
	ErrLineNotFound   = fmt.Errorf("line %w", ErrNotFound)
	ErrTableNotFound  = fmt.Errorf("table %w", ErrNotFound)
	ErrEntryNotFound  = fmt.Errorf("stock entry %w", ErrNotFound)
	ErrNoEntryForDate = fmt.Errorf("no stock entry for date: %w", ErrNotFound)
	ErrCartNotFound   = fmt.Errorf("cart %w", ErrNotFound)

	ErrEmptyCart       = fmt.Errorf("cart is empty: %w", ErrValidation)
	ErrItemInactive    = fmt.Errorf("item is not orderable: %w", ErrValidation)
	ErrInvalidQuantity = fmt.Errorf("quantity must be positive: %w", ErrValidation)
	ErrDuplicateCode   = fmt.Errorf("item number already in use: %w", ErrValidation)
	ErrTableReserved   = fmt.Errorf("table is reserved: %w", ErrValidation)

	ErrOrderLocked = fmt.Errorf("order is no longer pending: %w", ErrInvalidTransition)
)

// Invalid builds a validation error carrying a field-level message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// TransitionError records the edge that was refused.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
