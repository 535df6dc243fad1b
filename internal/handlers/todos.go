package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/remindful/todo-api/internal/models"
	"github.com/remindful/todo-api/internal/request"
	"github.com/remindful/todo-api/internal/service"
	"github.com/remindful/todo-api/internal/store"
	"github.com/remindful/todo-api/internal/validation"
	"go.uber.org/zap"
)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	service *service.TodoService
	logger  *zap.Logger

	// allowShareeWrites lets sharees mutate todos shared with them. Off by
	// default: shares grant read access only.
	allowShareeWrites bool
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(svc *service.TodoService, logger *zap.Logger, allowShareeWrites bool) *TodoHandler {
	return &TodoHandler{service: svc, logger: logger, allowShareeWrites: allowShareeWrites}
}

// RegisterRoutes registers todo routes on the given router
// The router should already have the /todos prefix (e.g., from apiRouter.PathPrefix("/todos"))
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods("GET")
	r.HandleFunc("", h.CreateTodo).Methods("POST")
	r.HandleFunc("/{id}", h.GetTodo).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTodo).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTodo).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteTodo).Methods("POST")
	r.HandleFunc("/{id}/share", h.ShareTodo).Methods("POST")
	r.HandleFunc("/{id}/unshare", h.UnshareTodo).Methods("POST")
}

// CreateTodoRequest represents a create todo request
type CreateTodoRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=500"`
	Description string  `json:"description,omitempty" validate:"max=10000"`
	RemindAt    *string `json:"remind_at,omitempty"`
}

// UpdateTodoRequest represents an update todo request
type UpdateTodoRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	RemindAt    *string `json:"remind_at,omitempty"`
}

// ShareTodoRequest names the user to grant or revoke access for
type ShareTodoRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// ListTodosResponse represents the paginated response for listing todos
type ListTodosResponse struct {
	Todos      []*models.Todo `json:"todos"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	Total      int            `json:"total"`
	TotalPages int            `json:"total_pages"`
}

// ListTodos lists todos the acting user owns or is shared on, with pagination
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		RespondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	page := 1
	if p := r.URL.Query().Get("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			page = parsed
		}
	}
	limit := store.MaxPageSize
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil {
			limit = parsed
		}
	}
	// Out-of-range values are corrected, not rejected.
	page, limit = store.NormalizePage(page, limit)

	todos, total, err := h.service.ListForUser(r.Context(), user.ID, page, limit)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	totalPages := (total + limit - 1) / limit
	if totalPages == 0 {
		totalPages = 1
	}
	if todos == nil {
		todos = []*models.Todo{}
	}

	respondJSON(w, http.StatusOK, ListTodosResponse{
		Todos:      todos,
		Page:       page,
		PageSize:   limit,
		Total:      total,
		TotalPages: totalPages,
	})
}

// CreateTodo creates a new todo owned by the acting user
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		RespondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateTodoRequest
	if decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Create(r.Context(), service.CreateTodoInput{
		OwnerID:     user.ID,
		Title:       req.Title,
		Description: req.Description,
		RemindAt:    req.RemindAt,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// GetTodo retrieves a todo by ID
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	// Existence is hidden from users with no access at all.
	if !todo.VisibleTo(user.ID) {
		RespondJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("todo %s not found", id))
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// UpdateTodo updates an existing todo
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !h.authorizeWrite(w, r, user, id) {
		return
	}

	var req UpdateTodoRequest
	if decodeBody(w, r, &req) {
		return
	}

	todo, err := h.service.Update(r.Context(), id, service.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		RemindAt:    req.RemindAt,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo soft-deletes a todo
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !h.authorizeWrite(w, r, user, id) {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// CompleteTodo marks a todo as done
func (h *TodoHandler) CompleteTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !h.authorizeWrite(w, r, user, id) {
		return
	}

	todo, err := h.service.Complete(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// ShareTodo grants another user read access to a todo
func (h *TodoHandler) ShareTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !h.authorizeWrite(w, r, user, id) {
		return
	}

	target, ok := h.shareTarget(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Share(r.Context(), id, target)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// UnshareTodo revokes another user's access to a todo
func (h *TodoHandler) UnshareTodo(w http.ResponseWriter, r *http.Request) {
	user, id, ok := h.actorAndID(w, r)
	if !ok {
		return
	}
	if !h.authorizeWrite(w, r, user, id) {
		return
	}

	target, ok := h.shareTarget(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Unshare(r.Context(), id, target)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// actorAndID pulls the acting user from context and the todo id from the path.
func (h *TodoHandler) actorAndID(w http.ResponseWriter, r *http.Request) (*models.User, uuid.UUID, bool) {
	user := request.UserFromContext(r)
	if user == nil {
		RespondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return nil, uuid.Nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid todo ID")
		return nil, uuid.Nil, false
	}

	return user, id, true
}

// authorizeWrite enforces write access to a todo: the owner always may, a
// sharee only when sharee writes are enabled, everyone else sees 404 to avoid
// leaking existence.
func (h *TodoHandler) authorizeWrite(w http.ResponseWriter, r *http.Request, user *models.User, id uuid.UUID) bool {
	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return false
	}

	if todo.OwnerID == user.ID {
		return true
	}
	if todo.SharedWithUser(user.ID) {
		if h.allowShareeWrites {
			return true
		}
		h.logger.Debug("sharee_write_rejected",
			zap.String("todo_id", id.String()),
			zap.String("user_id", user.ID.String()),
		)
		RespondJSONError(w, http.StatusForbidden, "Forbidden", "Shared todos are read-only")
		return false
	}

	RespondJSONError(w, http.StatusNotFound, "Not Found", fmt.Sprintf("todo %s not found", id))
	return false
}

// shareTarget decodes and validates the share/unshare request body.
func (h *TodoHandler) shareTarget(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req ShareTodoRequest
	if decodeBody(w, r, &req) {
		return uuid.Nil, false
	}

	target, err := uuid.Parse(req.UserID)
	if err != nil {
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "user_id must be a valid UUID")
		return uuid.Nil, false
	}
	return target, true
}

// decodeBody decodes and validates a JSON request body. It writes the error
// response itself and reports whether the caller should bail out.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			RespondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return true
		}
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return true
	}

	if err := validation.Validate.Struct(dst); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok && len(validationErrors) > 0 {
			RespondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", validationErrors[0].Error()))
			return true
		}
		RespondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return true
	}

	return false
}
