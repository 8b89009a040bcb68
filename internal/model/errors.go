package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain validation errors raised while building models from requests.
var (
	ErrInvalidRole             = errors.New("role must be customer or provider")
	ErrProfileRequiresProvider = errors.New("providerProfile is only allowed for providers")
	ErrInvalidDateFilter       = errors.New("invalid date filter")
)

// Envelope is the response body shared by every endpoint.
// Successful responses carry Data (and optionally Message); failures carry Message only.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// APIError is a failure response with its HTTP status
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Status, e.Message)
}

// Envelope returns the failure body for this error
func (e *APIError) Envelope() Envelope {
	return Envelope{Success: false, Message: e.Message}
}

// WriteJSON writes the error envelope as the response
func (e *APIError) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	_ = json.NewEncoder(w).Encode(e.Envelope())
}

// Common error constructors

// NewNotFoundError returns a 404 naming the missing entity, e.g. "Service not found".
func NewNotFoundError(entity string) *APIError {
	if entity != "" {
		entity = strings.ToUpper(entity[:1]) + entity[1:]
	}
	return &APIError{Status: http.StatusNotFound, Message: entity + " not found"}
}

func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *APIError {
	return &APIError{Status: http.StatusUnauthorized, Message: message}
}

func NewConflictError(message string) *APIError {
	return &APIError{Status: http.StatusConflict, Message: message}
}

func NewInternalError(message string) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return &APIError{Status: http.StatusInternalServerError, Message: message}
}

func NewServiceUnavailableError(message string) *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Message: message}
}

func NewRateLimitError(retryAfter int) *APIError {
	return &APIError{
		Status:  http.StatusTooManyRequests,
		Message: fmt.Sprintf("Too many requests, retry after %d seconds", retryAfter),
	}
}
