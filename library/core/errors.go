package core

import (
	"errors"
	"fmt"
)

// Business rule violations. Callers test them with errors.Is.
var (
	ErrValidation                  = errors.New("validation failed")
	ErrBanned                      = errors.New("borrower is banned")
	ErrOutOfStock                  = errors.New("book is out of stock")
	ErrInvalidStateTransition      = errors.New("invalid state transition")
	ErrPenaltyConfirmationRequired = errors.New("penalty payment confirmation required")
	ErrNotFound                    = errors.New("not found")
	ErrDuplicateOpenBorrow         = errors.New("open borrow record already exists")
	ErrDuplicateISBN               = errors.New("isbn already in active catalog")
)

var businessRuleErrors = []error{
	ErrValidation,
	ErrBanned,
	ErrOutOfStock,
	ErrInvalidStateTransition,
	ErrPenaltyConfirmationRequired,
	ErrNotFound,
	ErrDuplicateOpenBorrow,
	ErrDuplicateISBN,
}

// Violation wraps one of the sentinels above with the concrete reason.
func Violation(sentinel error, reason string) error {
	return fmt.Errorf("%w: %s", sentinel, reason)
}

// IsBusinessRuleViolation reports whether err carries one of the business rule sentinels.
func IsBusinessRuleViolation(err error) bool {
	for _, target := range businessRuleErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
