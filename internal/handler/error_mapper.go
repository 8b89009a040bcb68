package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/forgo/marketplace/internal/database"
	"github.com/forgo/marketplace/internal/middleware"
	"github.com/forgo/marketplace/internal/model"
	"github.com/forgo/marketplace/internal/service"
)

// MapServiceError converts a service error to a failure envelope.
// op is the message reported for failures that are not a missing record,
// e.g. "Failed to create service".
func MapServiceError(err error, op string) *model.APIError {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrServiceNotFound):
		return model.NewNotFoundError("service")
	case errors.Is(err, service.ErrProviderNotFound):
		return model.NewNotFoundError("provider")

	// ===== Filter Errors → 400 =====
	case errors.Is(err, model.ErrInvalidDateFilter):
		return model.NewBadRequestError("Invalid date filter")

	// ===== Validation Errors → 400 =====
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, model.ErrInvalidRole),
		errors.Is(err, model.ErrProfileRequiresProvider),
		errors.Is(err, errMalformedBody):
		return model.NewBadRequestError(op)
	case errors.Is(err, database.ErrDuplicate),
		errors.Is(err, database.ErrConstraint):
		return model.NewBadRequestError(op)

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrConcurrentUpdate):
		return model.NewConflictError(op)

	// ===== Session Errors → 401 =====
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrInvalidCookie):
		return model.NewUnauthorizedError("Not authenticated")

	// ===== Default → 500 =====
	default:
		return model.NewInternalError(op)
	}
}

// respondError maps err, logs it and writes the failure envelope.
// Field-level validation detail goes to the log only.
func respondError(w http.ResponseWriter, r *http.Request, err error, op string) {
	apiErr := MapServiceError(err, op)

	attrs := []any{
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", apiErr.Status),
		slog.String("request_id", middleware.GetRequestID(r.Context())),
		slog.String("error", err.Error()),
	}
	if apiErr.Status >= http.StatusInternalServerError {
		slog.Error(op, attrs...)
	} else {
		slog.Warn(op, attrs...)
	}

	WriteError(w, apiErr)
}
