// Package auth implements the authentication flows: registration, login
// with bearer-token issuance, and the middleware that guards protected
// routes.
package auth

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email" example:"user@example.com"`
	FirstName string `json:"first_name" validate:"required" example:"John"`
	LastName  string `json:"last_name" validate:"required" example:"Doe"`
	Password  string `json:"password" validate:"required" example:"strongpassword123"`
}

// LoginRequest is the login payload. Credentials travel in the body fields
// email and password.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"user@example.com"`
	Password string `json:"password" validate:"required" example:"strongpassword123"`
}

// TokenResponse is returned on successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
	ExpiresIn   int64  `json:"expires_in" example:"3600"`
}
