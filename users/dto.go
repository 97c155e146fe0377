package users

import "time"

// CreateUserInput carries the data needed to create a user. Password is the
// plaintext credential; it is hashed before anything is persisted.
type CreateUserInput struct {
	Email     string `json:"email" validate:"required,email" example:"user@example.com"`
	FirstName string `json:"first_name" validate:"required" example:"John"`
	LastName  string `json:"last_name" validate:"required" example:"Doe"`
	Password  string `json:"password" validate:"required" example:"strongpassword123"`
}

// UpdateUserRequest is a partial update. Pointer fields distinguish "leave
// unchanged" (nil) from "set to this value". A non-nil Password is re-hashed
// before storage.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// Empty reports whether the request carries no fields to update.
func (r *UpdateUserRequest) Empty() bool {
	return r.Email == nil && r.FirstName == nil && r.LastName == nil && r.Password == nil
}

// UserResponse is the public projection of a user record. The password hash
// has no field here, so it cannot appear in any externally-facing payload.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse builds the public projection of a user.
func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
