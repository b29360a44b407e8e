package db

import (
	"context"
	"strings"

	"github.com/anstrom/escudo/internal/errors"
)

// UserRepository handles user account operations.
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, hashed_password, created_at`

// Create inserts a new user. A duplicate email returns a CodeConflict error.
func (r *UserRepository) Create(ctx context.Context, email, hashedPassword string) (*User, error) {
	user := &User{
		Email:          normalizeEmail(email),
		HashedPassword: hashedPassword,
	}

	query := `
		INSERT INTO users (email, hashed_password)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query, user.Email, user.HashedPassword).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return nil, sanitizeDBError("create user", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	if err := r.db.GetContext(ctx, &user, query, normalizeEmail(email)); err != nil {
		return nil, sanitizeDBError("get user by email", err)
	}

	return &user, nil
}

// GetByID retrieves a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	var user User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, sanitizeDBError("get user by id", err)
	}

	return &user, nil
}

// Delete removes a user. Their scan results are removed by the foreign key
// cascade.
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return sanitizeDBError("delete user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return sanitizeDBError("delete user", err)
	}
	if rows == 0 {
		return errors.NewDatabaseError(errors.CodeNotFound, "User not found")
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
