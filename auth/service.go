package auth

import (
	"context"

	"github.com/user/identity-go/apperror"
	"github.com/user/identity-go/hashing"
	"github.com/user/identity-go/token"
	"github.com/user/identity-go/users"
)

// invalidCredentials is the single failure returned for both an unknown
// email and a wrong password, so a caller cannot probe which emails exist.
func invalidCredentials() *apperror.AppError {
	return apperror.NewAuthError("invalid credentials", nil)
}

// Service orchestrates registration and login. It is stateless across
// calls; every request stands alone.
type Service struct {
	directory *users.Directory
	hasher    hashing.Hasher
	issuer    *token.Issuer
}

// NewService creates an authentication service over the given directory,
// hasher, and token issuer.
func NewService(directory *users.Directory, hasher hashing.Hasher, issuer *token.Issuer) *Service {
	return &Service{
		directory: directory,
		hasher:    hasher,
		issuer:    issuer,
	}
}

// Register creates a new user and returns its public projection. Duplicate
// emails and invalid input surface as conflict and validation errors from
// the directory; nothing is translated away here.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*users.UserResponse, error) {
	user, err := s.directory.Create(ctx, users.CreateUserInput{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		return nil, err
	}

	resp := users.NewUserResponse(user)
	return &resp, nil
}

// Login verifies the credentials and issues an access token for the user.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.directory.FindByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, invalidCredentials()
		}
		return nil, err
	}

	if !s.hasher.Check(req.Password, user.PasswordHash) {
		return nil, invalidCredentials()
	}

	accessToken, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue token", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.issuer.TTL().Seconds()),
	}, nil
}
