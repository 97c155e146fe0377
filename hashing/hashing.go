// Package hashing provides one-way password hashing and verification.
// Plaintext passwords exist only as transient arguments here; they are
// never stored, logged, or echoed back.
package hashing

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength is bcrypt's input ceiling in bytes. Longer inputs are
// rejected instead of silently truncated.
const maxPasswordLength = 72

var (
	// ErrEmptyPassword is returned when asked to hash an empty string.
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrPasswordTooLong is returned when the plaintext exceeds the
	// algorithm's input limit.
	ErrPasswordTooLong = fmt.Errorf("password exceeds %d bytes", maxPasswordLength)
)

// Hasher abstracts the hashing algorithm so services depend on the contract,
// not on bcrypt directly.
type Hasher interface {
	// Hash generates a salted digest from a plaintext password. Each call
	// uses a fresh random salt, so two hashes of the same input differ.
	Hash(password string) (string, error)

	// Check reports whether plaintext and digest match. A structurally
	// malformed digest verifies false rather than returning an error.
	Check(password, digest string) bool
}

// BcryptHasher implements Hasher using bcrypt with a fixed work factor.
// The cost is set once at construction and read-only afterwards, so the
// hasher is safe for concurrent use.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher with the given work factor.
// Costs outside bcrypt's supported range fall back to the library default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash generates a salted bcrypt digest of the password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Check compares the password against the digest in constant time.
func (h *BcryptHasher) Check(password, digest string) bool {
	// bcrypt returns an error both for mismatches and for unparseable
	// digests; callers only need the boolean.
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
