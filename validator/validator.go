// Package validator provides input validation for the application
package validator

import (
	"errors"
	"fmt"
	"net/mail"
)

var (
	// ErrEmptyString is returned when a required string is empty
	ErrEmptyString = errors.New("string cannot be empty")
	// ErrInvalidEmail is returned when an email address does not parse
	ErrInvalidEmail = errors.New("invalid email address")
)

// ValidateNonEmpty validates that a string is not empty
func ValidateNonEmpty(s string) error {
	if s == "" {
		return ErrEmptyString
	}
	return nil
}

// ValidateEmail validates that s is a plausible email address
func ValidateEmail(s string) error {
	if s == "" {
		return ErrEmptyString
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidEmail, s)
	}
	return nil
}

// ValidateID validates that an ID is positive
func ValidateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("invalid id: %d (must be positive)", id)
	}
	return nil
}
