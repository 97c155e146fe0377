// Package users implements the user directory: the user record itself,
// the storage contract with its Postgres and in-memory implementations,
// and the orchestration layer that hashes credentials before persisting.
package users

import "time"

// User is the identity record persisted by the store.
// ID is assigned once at creation and never changes. Email is unique
// across all users and stored lowercased. PasswordHash only ever holds a
// digest and is excluded from JSON so it can never leak into a response.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
