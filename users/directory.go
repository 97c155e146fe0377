package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/user/identity-go/apperror"
	"github.com/user/identity-go/hashing"
)

// Directory orchestrates user CRUD over a Store, hashing plaintext
// credentials before anything reaches persistence. It holds no per-request
// state and is safe for concurrent use.
type Directory struct {
	store  Store
	hasher hashing.Hasher
}

// NewDirectory creates a Directory over the given store and hasher.
func NewDirectory(store Store, hasher hashing.Hasher) *Directory {
	return &Directory{store: store, hasher: hasher}
}

// Create validates the input, hashes the password, and inserts a new user.
// The ID and both timestamps are assigned here, once.
func (d *Directory) Create(ctx context.Context, input CreateUserInput) (*User, error) {
	if input.Email == "" || input.FirstName == "" || input.LastName == "" || input.Password == "" {
		return nil, apperror.NewValidationError("email, first_name, last_name, and password are required", nil)
	}

	passwordHash, err := d.hashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(input.Email),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	return d.store.Insert(ctx, user)
}

// Update applies a partial update. A new plaintext password is re-hashed so
// only digests ever reach the store.
func (d *Directory) Update(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	fields := UpdateFields{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Password != nil {
		passwordHash, err := d.hashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		fields.PasswordHash = &passwordHash
	}
	return d.store.Update(ctx, id, fields)
}

// Remove hard-deletes the user.
func (d *Directory) Remove(ctx context.Context, id string) error {
	return d.store.Delete(ctx, id)
}

// FindByID returns the user with the given ID.
func (d *Directory) FindByID(ctx context.Context, id string) (*User, error) {
	return d.store.FindByID(ctx, id)
}

// FindByEmail returns the user with the given (normalized) email.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*User, error) {
	return d.store.FindByEmail(ctx, email)
}

// ListAll returns all users.
func (d *Directory) ListAll(ctx context.Context) ([]User, error) {
	return d.store.ListAll(ctx)
}

// hashPassword maps hasher failures into the error taxonomy: bad input is
// the caller's problem, anything else is an infrastructure failure.
func (d *Directory) hashPassword(plaintext string) (string, error) {
	digest, err := d.hasher.Hash(plaintext)
	if err != nil {
		if errors.Is(err, hashing.ErrEmptyPassword) || errors.Is(err, hashing.ErrPasswordTooLong) {
			return "", apperror.NewValidationError(err.Error(), nil)
		}
		return "", apperror.NewHashingError("failed to hash password", err)
	}
	return digest, nil
}
