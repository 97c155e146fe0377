package users

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/identity-go/apperror"
	"github.com/user/identity-go/hashing"
)

func newTestDirectory() (*Directory, hashing.Hasher) {
	hasher := hashing.NewBcryptHasher(bcrypt.MinCost)
	return NewDirectory(NewMemoryStore(), hasher), hasher
}

func validInput() CreateUserInput {
	return CreateUserInput{
		Email:     "a@x.com",
		FirstName: "A",
		LastName:  "B",
		Password:  "pw123",
	}
}

func TestDirectory_CreateHashesPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, hasher := newTestDirectory()

	user, err := dir.Create(ctx, validInput())
	require.NoError(t, err)

	require.NotEmpty(t, user.ID)
	require.NotEqual(t, "pw123", user.PasswordHash)
	require.True(t, hasher.Check("pw123", user.PasswordHash))
	require.False(t, user.CreatedAt.IsZero())
	require.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestDirectory_CreateRequiresFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	cases := []struct {
		name   string
		mutate func(*CreateUserInput)
	}{
		{"missing email", func(in *CreateUserInput) { in.Email = "" }},
		{"missing first name", func(in *CreateUserInput) { in.FirstName = "" }},
		{"missing last name", func(in *CreateUserInput) { in.LastName = "" }},
		{"missing password", func(in *CreateUserInput) { in.Password = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := dir.Create(ctx, in)
			require.True(t, apperror.IsValidationError(err))
		})
	}
}

func TestDirectory_CreateRejectsOversizePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	in := validInput()
	in.Password = strings.Repeat("x", 100)
	_, err := dir.Create(ctx, in)
	require.True(t, apperror.IsValidationError(err))
}

func TestDirectory_CreateNormalizesEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	in := validInput()
	in.Email = "Mixed@Case.Com"
	user, err := dir.Create(ctx, in)
	require.NoError(t, err)
	require.Equal(t, "mixed@case.com", user.Email)
}

func TestDirectory_DuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	_, err := dir.Create(ctx, validInput())
	require.NoError(t, err)

	_, err = dir.Create(ctx, validInput())
	require.True(t, apperror.IsConflictError(err))
}

func TestDirectory_UpdateRehashesPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, hasher := newTestDirectory()

	user, err := dir.Create(ctx, validInput())
	require.NoError(t, err)
	oldHash := user.PasswordHash

	newPassword := "new-secret"
	updated, err := dir.Update(ctx, user.ID, UpdateUserRequest{Password: &newPassword})
	require.NoError(t, err)

	require.NotEqual(t, oldHash, updated.PasswordHash)
	require.NotEqual(t, newPassword, updated.PasswordHash)
	require.True(t, hasher.Check(newPassword, updated.PasswordHash))
	require.False(t, hasher.Check("pw123", updated.PasswordHash))
}

func TestDirectory_UpdateProfileFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	user, err := dir.Create(ctx, validInput())
	require.NoError(t, err)

	firstName := "X"
	updated, err := dir.Update(ctx, user.ID, UpdateUserRequest{FirstName: &firstName})
	require.NoError(t, err)
	require.Equal(t, "X", updated.FirstName)

	fetched, err := dir.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "X", fetched.FirstName)
	require.False(t, fetched.UpdatedAt.Before(user.UpdatedAt))
}

func TestDirectory_RemoveThenNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	user, err := dir.Create(ctx, validInput())
	require.NoError(t, err)

	require.NoError(t, dir.Remove(ctx, user.ID))

	_, err = dir.FindByID(ctx, user.ID)
	require.True(t, apperror.IsNotFound(err))
}

func TestUserResponse_ExcludesPasswordHash(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir, _ := newTestDirectory()

	user, err := dir.Create(ctx, validInput())
	require.NoError(t, err)

	resp := NewUserResponse(user)
	require.Equal(t, user.ID, resp.ID)
	require.Equal(t, user.Email, resp.Email)
	require.Equal(t, user.FirstName, resp.FirstName)
	require.Equal(t, user.LastName, resp.LastName)

	// The hash must not leak through JSON either, even from the full model.
	raw, err := json.Marshal(user)
	require.NoError(t, err)
	require.NotContains(t, string(raw), user.PasswordHash)
	require.NotContains(t, string(raw), "password")
}
