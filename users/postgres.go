package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/identity-go/apperror"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore implements Store on a pgx connection pool. Email uniqueness
// rides on the users_email_key index, so concurrent duplicate inserts are
// resolved by the database, not by application-level locking.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore using the given pool.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, user *User) (*User, error) {
	query := `INSERT INTO users (id, email, first_name, last_name, password_hash, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := s.db.Exec(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
			return nil, apperror.NewConflictError("user already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
              FROM users WHERE id = $1`
	return s.scanOne(s.db.QueryRow(ctx, query, id), fmt.Sprintf("user with id '%s' not found", id))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
              FROM users WHERE email = $1`
	return s.scanOne(s.db.QueryRow(ctx, query, strings.ToLower(email)), "user not found")
}

// Update applies only the provided fields and refreshes updated_at,
// building the SET clause dynamically from the non-nil members.
func (s *PostgresStore) Update(ctx context.Context, id string, fields UpdateFields) (*User, error) {
	var setClauses []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if fields.Email != nil {
		addSet("email", strings.ToLower(*fields.Email))
	}
	if fields.FirstName != nil {
		addSet("first_name", *fields.FirstName)
	}
	if fields.LastName != nil {
		addSet("last_name", *fields.LastName)
	}
	if fields.PasswordHash != nil {
		addSet("password_hash", *fields.PasswordHash)
	}
	if len(setClauses) == 0 {
		return s.FindByID(ctx, id)
	}
	addSet("updated_at", time.Now().UTC())

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d
              RETURNING id, email, first_name, last_name, password_hash, created_at, updated_at`,
		strings.Join(setClauses, ", "), argID)

	user, err := s.scanOne(s.db.QueryRow(ctx, query, args...), fmt.Sprintf("user with id '%s' not found", id))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == pgUniqueViolation && strings.Contains(pgErr.ConstraintName, "email") {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
			return nil, apperror.NewDatabaseError("failed to update user", err)
		}
		return nil, err
	}
	return user, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete user", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("user with id '%s' not found", id), nil)
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]User, error) {
	query := `SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
              FROM users ORDER BY created_at`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list users", err)
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan user row", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate user rows", err)
	}
	return result, nil
}

func (s *PostgresStore) scanOne(row pgx.Row, notFoundMsg string) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(notFoundMsg, nil)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			// Let Update translate unique violations; everything else
			// surfaces as a database error.
			return nil, err
		}
		return nil, apperror.NewDatabaseError("failed to query user", err)
	}
	return &u, nil
}
