// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Validation errors.
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidLimit     = errors.New("budget limit must be greater than zero")
	ErrInvalidPrincipal = errors.New("principal must be greater than zero")
	ErrInvalidTerm      = errors.New("months remaining must be greater than zero")
	ErrInvalidRate      = errors.New("interest rate cannot be negative")
	ErrInvalidFees      = errors.New("extra fees cannot be negative")
	ErrInvalidKind      = errors.New("transaction kind must be income or expense")
	ErrEmptyCategory    = errors.New("category cannot be empty")

	// Store errors.
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrDuplicateKey     = errors.New("duplicate key")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsValidation reports whether err was caused by rejected input rather than
// a storage or system failure. Validation errors leave state unchanged.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidAmount,
		ErrInvalidLimit,
		ErrInvalidPrincipal,
		ErrInvalidTerm,
		ErrInvalidRate,
		ErrInvalidFees,
		ErrInvalidKind,
		ErrEmptyCategory,
		ErrNotFound,
		ErrCapacityExceeded,
		ErrDuplicateKey,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
