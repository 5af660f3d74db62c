package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

// PostgresRepository persists users to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, username, email, phone_number, password_hash, profile_picture, is_admin, created_at, updated_at`

// Create inserts a new user. A duplicate email yields ErrEmailTaken so the
// caller can resolve the race by re-looking the user up.
func (r *PostgresRepository) Create(ctx context.Context, user User) (User, error) {
	const insert = `
		INSERT INTO users (id, username, email, phone_number, password_hash, profile_picture, is_admin, created_at, updated_at)
		VALUES (:id, :username, :email, :phone_number, :password_hash, :profile_picture, :is_admin, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, insert, user); err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

// FindByID looks a user up by primary key. Returns nil when absent.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return &user, nil
}

// FindByEmail looks a user up by email. Returns nil when absent.
func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE email = $1`, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// Update rewrites the mutable columns of an existing user.
func (r *PostgresRepository) Update(ctx context.Context, user User) (User, error) {
	const update = `
		UPDATE users
		SET username = :username,
		    email = :email,
		    phone_number = :phone_number,
		    password_hash = :password_hash,
		    profile_picture = :profile_picture,
		    is_admin = :is_admin,
		    updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, update, user)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return User{}, fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return User{}, ErrNotFound
	}

	return user, nil
}

// Delete removes a user by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}
