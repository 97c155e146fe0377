package users

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/user/identity-go/apperror"
)

// MemoryStore is an in-process Store used by tests and local runs without a
// database. A single mutex guards both maps, which makes the duplicate-email
// check-and-insert atomic, mirroring the unique index of the Postgres store.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]User
	byEmail map[string]string // normalized email -> user ID
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) Insert(_ context.Context, user *User) (*User, error) {
	email := strings.ToLower(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[email]; exists {
		return nil, apperror.NewConflictError("email already exists", nil)
	}
	if _, exists := s.byID[user.ID]; exists {
		return nil, apperror.NewConflictError("user already exists", nil)
	}

	stored := *user
	stored.Email = email
	s.byID[stored.ID] = stored
	s.byEmail[email] = stored.ID

	result := stored
	return &result, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id '%s' not found", id), nil)
	}
	result := user
	return &result, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	user := s.byID[id]
	result := user
	return &result, nil
}

func (s *MemoryStore) Update(_ context.Context, id string, fields UpdateFields) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("user with id '%s' not found", id), nil)
	}

	if fields.Email != nil {
		newEmail := strings.ToLower(*fields.Email)
		if newEmail != user.Email {
			if _, taken := s.byEmail[newEmail]; taken {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
			delete(s.byEmail, user.Email)
			s.byEmail[newEmail] = id
			user.Email = newEmail
		}
	}
	if fields.FirstName != nil {
		user.FirstName = *fields.FirstName
	}
	if fields.LastName != nil {
		user.LastName = *fields.LastName
	}
	if fields.PasswordHash != nil {
		user.PasswordHash = *fields.PasswordHash
	}
	user.UpdatedAt = time.Now().UTC()

	s.byID[id] = user
	result := user
	return &result, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.byID[id]
	if !ok {
		return apperror.NewNotFoundError(fmt.Sprintf("user with id '%s' not found", id), nil)
	}
	delete(s.byID, id)
	delete(s.byEmail, user.Email)
	return nil
}

func (s *MemoryStore) ListAll(_ context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		result = append(result, u)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}
