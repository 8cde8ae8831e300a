package cli

import (
	"fmt"
	"strings"
)

// ValidationError reports a client-side input problem. Validation happens
// before any network call; a failed validation never leaves the form layer.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validateEmail(email string) error {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return &ValidationError{Field: "email", Reason: "must be a valid email address"}
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return &ValidationError{Field: "password", Reason: "must be at least 6 characters long"}
	}
	return nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return nil
}

func validatePrice(price int64) error {
	if price < 0 {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}
