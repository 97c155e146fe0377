package users

import "context"

// UpdateFields carries a partial update. Nil fields are left untouched;
// the store refreshes updated_at on every successful update.
type UpdateFields struct {
	Email        *string
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

// Store is the persistence contract for user records. Implementations must
// enforce email uniqueness atomically: two concurrent inserts with the same
// normalized email may not both succeed.
//
// Failures are reported as apperror values: a conflict for duplicate
// emails, not-found for missing rows, and a database error otherwise.
type Store interface {
	Insert(ctx context.Context, user *User) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id string, fields UpdateFields) (*User, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context) ([]User, error)
}
