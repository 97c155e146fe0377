package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/user/identity-go/apperror"
)

var validate = validator.New()

// Handlers exposes the authentication flows over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates auth handlers over the given service.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister registers a new user and returns 201 with its public
// projection. The password hash is never part of the response.
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if err := validate.Struct(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewValidationError("email, first_name, last_name, and password are required", err))
			return
		}

		user, err := h.service.Register(r.Context(), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusCreated, user)
	}
}

// HandleLogin authenticates the credentials and returns an access token.
// Unknown email and wrong password produce an identical 401.
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperror.WriteError(w, r, apperror.NewBadRequestError("invalid request body", err))
			return
		}
		defer r.Body.Close()

		if req.Email == "" || req.Password == "" {
			apperror.WriteError(w, r, apperror.NewBadRequestError("email and password are required", nil))
			return
		}

		resp, err := h.service.Login(r.Context(), req)
		if err != nil {
			apperror.WriteError(w, r, err)
			return
		}
		apperror.WriteJSON(w, http.StatusOK, resp)
	}
}
