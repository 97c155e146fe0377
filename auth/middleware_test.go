package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/identity-go/hashing"
	"github.com/user/identity-go/token"
	"github.com/user/identity-go/users"
)

// newTestRouter wires the full HTTP surface against an in-memory store,
// mirroring the wiring in main.
func newTestRouter(t *testing.T) (*chi.Mux, *token.Issuer) {
	t.Helper()

	hasher := hashing.NewBcryptHasher(bcrypt.MinCost)
	issuer := token.NewIssuer([]byte("test-secret"), time.Hour)
	directory := users.NewDirectory(users.NewMemoryStore(), hasher)
	authHandlers := NewHandlers(NewService(directory, hasher, issuer))
	userHandlers := users.NewHandlers(directory)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
	})
	r.Route("/users", func(r chi.Router) {
		r.Use(Middleware(issuer))
		userHandlers.RegisterRoutes(r)
	})
	return r, issuer
}

func doJSON(t *testing.T, r http.Handler, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestEndToEnd_RegisterLoginAndDirectory(t *testing.T) {
	t.Parallel()
	r, issuer := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com", "password": "pw123", "first_name": "A", "last_name": "B",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created users.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.NotContains(t, rec.Body.String(), "password")

	rec = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "pw123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens TokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tokens))
	subject, err := issuer.Verify(tokens.AccessToken)
	require.NoError(t, err)
	require.Equal(t, created.ID, subject)

	// Wrong password denies access with the uninformative 401.
	rec = doJSON(t, r, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The token opens the directory routes.
	rec = doJSON(t, r, http.MethodGet, "/users/"+created.ID, tokens.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPatch, "/users/"+created.ID, tokens.AccessToken, map[string]string{
		"first_name": "X",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var patched users.UserResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &patched))
	require.Equal(t, "X", patched.FirstName)

	rec = doJSON(t, r, http.MethodDelete, "/users/"+created.ID, tokens.AccessToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/users/"+created.ID, tokens.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegister_DuplicateEmailConflictOverHTTP(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	payload := map[string]string{
		"email": "dup@x.com", "password": "pw123", "first_name": "A", "last_name": "B",
	}
	rec := doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/register", "", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestRegister_InvalidInputOverHTTP(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "pw123", "first_name": "A", "last_name": "B",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "a@x.com",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMiddleware_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	// No header at all.
	rec := doJSON(t, r, http.MethodGet, "/users/", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Malformed header.
	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	rec = doJSON(t, r, http.MethodGet, "/users/", "not.a.jwt", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Expired token: signature is fine, window is not.
	expiredIssuer := token.NewIssuer([]byte("test-secret"), -time.Minute)
	expired, err := expiredIssuer.Issue("some-user")
	require.NoError(t, err)

	rec = doJSON(t, r, http.MethodGet, "/users/", expired, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "expired")
}

func TestMiddleware_StoresSubjectInContext(t *testing.T) {
	t.Parallel()

	issuer := token.NewIssuer([]byte("ctx-secret"), time.Hour)
	tok, err := issuer.Issue("user-42")
	require.NoError(t, err)

	var gotSubject string
	var found bool
	handler := Middleware(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, found = SubjectFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	require.Equal(t, "user-42", gotSubject)
}
