package handler

import (
	"net/http"

	"github.com/forgo/marketplace/internal/model"
	"github.com/forgo/marketplace/internal/service"
)

// UserHandler handles /users endpoints
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// RegisterRoutes registers user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /users", h.List)
	mux.HandleFunc("POST /users", h.Create)
	mux.HandleFunc("DELETE /users", h.DeleteAll)
	mux.HandleFunc("GET /users/{id}", h.Get)
	mux.HandleFunc("PUT /users/{id}", h.Update)
	mux.HandleFunc("DELETE /users/{id}", h.Delete)
}

// List handles GET /users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		respondError(w, r, err, "Failed to fetch users")
		return
	}
	if users == nil {
		users = []*model.User{}
	}
	WriteData(w, http.StatusOK, users, "")
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err, "Failed to fetch user")
		return
	}
	WriteData(w, http.StatusOK, user, "")
}

// Create handles POST /users
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	const op = "Failed to create user"

	var req model.CreateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, err, op)
		return
	}

	user, err := h.userService.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, err, op)
		return
	}
	WriteData(w, http.StatusCreated, user, "")
}

// Update handles PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "Failed to update user"

	var req model.UpdateUserRequest
	if err := DecodeJSON(r, &req); err != nil {
		respondError(w, r, err, op)
		return
	}

	user, err := h.userService.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		respondError(w, r, err, op)
		return
	}
	WriteData(w, http.StatusOK, user, "")
}

// Delete handles DELETE /users/{id}. The user's services go with it.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, err := h.userService.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondError(w, r, err, "Failed to delete user")
		return
	}
	WriteMessage(w, http.StatusOK, "User deleted successfully")
}

// DeleteAll handles DELETE /users
func (h *UserHandler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	if _, err := h.userService.DeleteAll(r.Context()); err != nil {
		respondError(w, r, err, "Failed to delete users")
		return
	}
	WriteMessage(w, http.StatusOK, "All users deleted")
}
