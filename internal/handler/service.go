package handler

import (
	"net/http"

	"github.com/forgo/marketplace/internal/model"
	"github.com/forgo/marketplace/internal/service"
)

// ServiceHandler handles /services endpoints
type ServiceHandler struct {
	catalogService *service.CatalogService
}

// NewServiceHandler creates a new service handler
func NewServiceHandler(catalogService *service.CatalogService) *ServiceHandler {
	return &ServiceHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers service routes
func (h *ServiceHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /services", h.List)
	mux.HandleFunc("POST /services", h.Create)
	mux.HandleFunc("GET /services/filter", h.Filter)
	mux.HandleFunc("GET /services/{id}", h.Get)
	mux.HandleFunc("PUT /services/{id}", h.Update)
	mux.HandleFunc("DELETE /services/{id}", h.Delete)
}

// List handles GET /services
func (h *ServiceHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalogService.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch services")
		return
	}
	writeServices(w, services)
}

// Filter handles GET /services/filter?title=&tags=a,b&minBudget=&maxBudget=&startDate=&endDate=
func (h *ServiceHandler) Filter(w http.ResponseWriter, r *http.Request) {
	const op = "Failed to fetch services"

	filter, err := model.ParseServiceFilter(r.URL.Query())
	if err != nil {
		respondError(w, r, err, op)
		return
	}

	services, err := h.catalogService.Filter(r.Context(), filter)
	if err != nil {
		respondError(w, r, err, op)
		return
	}
	writeServices(w, services)
}

// Get handles GET /services/{id}
func (h *ServiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalogService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch service")
		return
	}
	WriteData(w, http.StatusOK, svc, "")
}

// Create handles POST /services
func (h *ServiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "Failed to create service"

	var req model.CreateServiceRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, err, op)
		return
	}

	svc, err := h.catalogService.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err, op)
		return
	}
	WriteData(w, http.StatusCreated, svc, "")
}

// Update handles PUT /services/{id}
func (h *ServiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "Failed to update service"

	var req model.UpdateServiceRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, err, op)
		return
	}

	svc, err := h.catalogService.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err, op)
		return
	}
	WriteData(w, http.StatusOK, svc, "")
}

// Delete handles DELETE /services/{id}
func (h *ServiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalogService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Failed to delete service")
		return
	}
	WriteData(w, http.StatusOK, svc, "Service deleted successfully")
}

func writeServices(w http.ResponseWriter, services []*model.Service) {
	if services == nil {
		services = []*model.Service{}
	}
	WriteData(w, http.StatusOK, services, "")
}
