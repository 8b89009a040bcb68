package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/forgo/marketplace/internal/model"
)

// Pinger checks that a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and database health
type HealthHandler struct {
	db Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthStatus is the body of GET /health
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		slog.Error("health check failed", slog.String("error", err.Error()))
		WriteError(w, model.NewServiceUnavailableError("Database unavailable"))
		return
	}
	WriteData(w, http.StatusOK, HealthStatus{Status: "ok", Database: "ok"}, "")
}
