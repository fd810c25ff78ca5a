// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Classification errors.
	ErrClassificationUnavailable = errors.New("classification unavailable")

	// Input errors.
	ErrInputNotFound = errors.New("input file not found")
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedCSV  = errors.New("malformed csv")

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

// IsStructural reports whether err should abort a batch before any output is written.
func IsStructural(err error) bool {
	return errors.Is(err, ErrInputNotFound) ||
		errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrMalformedCSV)
}
