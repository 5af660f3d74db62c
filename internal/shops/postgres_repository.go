package shops

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists shops to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const shopColumns = `id, name, url, created_at, updated_at`

// Create inserts a new row and returns the stored representation.
func (r *PostgresRepository) Create(ctx context.Context, shop Shop) (Shop, error) {
	const insert = `
		INSERT INTO shops (id, name, url, created_at, updated_at)
		VALUES (:id, :name, :url, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, insert, shop); err != nil {
		return Shop{}, fmt.Errorf("insert shop: %w", err)
	}

	return shop, nil
}

// Get retrieves a row by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Shop, error) {
	var shop Shop
	if err := r.db.GetContext(ctx, &shop, `SELECT `+shopColumns+` FROM shops WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Shop{}, ErrNotFound
		}
		return Shop{}, fmt.Errorf("get shop: %w", err)
	}
	return shop, nil
}

// List returns all shops ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Shop, error) {
	shops := []Shop{}
	if err := r.db.SelectContext(ctx, &shops, `SELECT `+shopColumns+` FROM shops ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	return shops, nil
}

// Update rewrites the mutable columns of an existing shop.
func (r *PostgresRepository) Update(ctx context.Context, shop Shop) (Shop, error) {
	const update = `
		UPDATE shops
		SET name = :name, url = :url, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, update, shop)
	if err != nil {
		return Shop{}, fmt.Errorf("update shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Shop{}, fmt.Errorf("update shop: %w", err)
	}
	if affected == 0 {
		return Shop{}, ErrNotFound
	}

	return shop, nil
}

// Delete removes a shop by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM shops WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete shop: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
