package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/user/identity-go/apperror"
)

var validate = validator.New()

// Handlers exposes the directory CRUD operations over HTTP. Every route
// here sits behind the JWT middleware; handlers assume an authenticated
// caller.
type Handlers struct {
	directory *Directory
}

// NewHandlers creates user handlers over the given directory.
func NewHandlers(directory *Directory) *Handlers {
	return &Handlers{directory: directory}
}

// RegisterRoutes mounts the directory CRUD routes on the router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleList())
	r.Get("/{id}", h.HandleGet())
	r.Patch("/{id}", h.HandleUpdate())
	r.Delete("/{id}", h.HandleDelete())
}

// HandleList returns all users as public projections.
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := h.directory.ListAll(r.Context())
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}

		responses := make([]UserResponse, 0, len(list))
		for i := range list {
			responses = append(responses, NewUserResponse(&list[i]))
		}
		apperror.WriteJSON(w, http.StatusOK, responses)
	}
}

// HandleGet returns a single user by ID.
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := h.directory.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, NewUserResponse(user))
	}
}

// HandleUpdate applies a partial update to a user.
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Empty() {
			apperror.WriteError(w, r, apperror.NewBadRequestError("no fields provided for update", nil))
			return
		}
		if err := validate.Struct(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewValidationError("invalid update payload", err))
			return
		}

		user, err := h.directory.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, NewUserResponse(user))
	}
}

// HandleDelete removes a user.
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.directory.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
