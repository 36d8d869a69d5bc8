package expense

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount is returned when an amount is not a non-negative number.
	ErrInvalidAmount = errors.New("amount must be a non-negative number (e.g. 1,200.50)")

	// ErrNotFound is returned when an edit or delete target cannot be located.
	ErrNotFound = errors.New("expense not found")
)

// MissingFieldError is returned when a required text field is blank.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// IndexError is returned when a positional operation targets an index that no
// longer exists, typically because the ledger changed since the lookup.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range for ledger of %d expense(s)", e.Index, e.Len)
}

// IsValidation reports whether err was caused by bad user input.
func IsValidation(err error) bool {
	var missing *MissingFieldError
	return errors.Is(err, ErrInvalidAmount) || errors.As(err, &missing)
}
