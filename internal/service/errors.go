package service

import (
	"errors"
	"strings"

	"github.com/forgo/marketplace/internal/model"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Catalog Errors =====
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrServiceNotFound  = errors.New("service not found")
	ErrCustomerNotFound = errors.New("customer does not exist")
	ErrValidation       = errors.New("validation failed")
	ErrConcurrentUpdate = errors.New("record changed concurrently")
)

// ===== Auth Errors =====
var (
	ErrProviderNotFound  = errors.New("OAuth provider not found")
	ErrInvalidState      = errors.New("invalid OAuth state")
	ErrProviderError     = errors.New("OAuth provider error")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidCookie     = errors.New("invalid session cookie")
	ErrIncompleteProfile = errors.New("provider returned an incomplete profile")
)

// ValidationError reports the fields that failed validation. It matches
// ErrValidation with errors.Is.
type ValidationError struct {
	Fields []model.FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// validationError returns nil when fields is empty
func validationError(fields []model.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
