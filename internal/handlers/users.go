package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/remindful/todo-api/internal/models"
	"github.com/remindful/todo-api/internal/store"
	"github.com/remindful/todo-api/internal/validation"
)

// UserHandler handles user-related requests
type UserHandler struct {
	users *store.UserStore
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *store.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers user routes on the given router
// The router should already have the /users prefix
func (h *UserHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.CreateUser).Methods("POST")
	r.HandleFunc("/{id}", h.GetUser).Methods("GET")
}

// CreateUserRequest represents a create user request
type CreateUserRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty" validate:"max=200"`
}

// CreateUser registers a user
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed: "+validationErrors[0].Error())
			return
		}
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	user, err := h.users.Create(r.Context(), &models.User{
		Email: req.Email,
		Name:  validation.SanitizeText(req.Name),
	})
	if err != nil {
		RespondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create user")
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// GetUser retrieves a user by ID
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid user ID")
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			RespondJSONError(w, http.StatusNotFound, "Not Found", "User not found")
			return
		}
		RespondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to get user")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
