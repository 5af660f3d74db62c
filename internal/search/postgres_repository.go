package search

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists search history to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const entryColumns = `id, user_id, query, searched_at`

// Create inserts a new history entry.
func (r *PostgresRepository) Create(ctx context.Context, entry Entry) (Entry, error) {
	const insert = `
		INSERT INTO search_history (id, user_id, query, searched_at)
		VALUES (:id, :user_id, :query, :searched_at)
	`

	if _, err := r.db.NamedExecContext(ctx, insert, entry); err != nil {
		return Entry{}, fmt.Errorf("insert search history: %w", err)
	}

	return entry, nil
}

// Get retrieves an entry by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Entry, error) {
	var entry Entry
	if err := r.db.GetContext(ctx, &entry, `SELECT `+entryColumns+` FROM search_history WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, fmt.Errorf("get search history: %w", err)
	}
	return entry, nil
}

// ListByUser returns a user's entries, most recent first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	entries := []Entry{}
	const query = `SELECT ` + entryColumns + ` FROM search_history WHERE user_id = $1 ORDER BY searched_at DESC`
	if err := r.db.SelectContext(ctx, &entries, query, userID); err != nil {
		return nil, fmt.Errorf("list search history: %w", err)
	}
	return entries, nil
}

// Delete removes an entry by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM search_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete search history: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete search history: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
