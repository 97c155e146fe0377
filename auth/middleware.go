package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/user/identity-go/apperror"
	"github.com/user/identity-go/token"
)

// Middleware returns a middleware that verifies the bearer token from the
// Authorization header and stores the asserted subject (user ID) in the
// request context. Expired and invalid tokens carry distinct messages but
// both deny access.
func Middleware(issuer *token.Issuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperror.WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				apperror.WriteError(w, r, apperror.NewAuthError("authorization header format must be Bearer {token}", nil))
				return
			}

			subject, err := issuer.Verify(parts[1])
			if err != nil {
				if errors.Is(err, token.ErrExpiredToken) {
					apperror.WriteError(w, r, apperror.NewAuthError("token has expired", err))
					return
				}
				apperror.WriteError(w, r, apperror.NewAuthError("invalid token", err))
				return
			}

			next.ServeHTTP(w, r.WithContext(NewContextWithSubject(r.Context(), subject)))
		})
	}
}
