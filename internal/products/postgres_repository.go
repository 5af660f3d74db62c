package products

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository persists products to a Postgres database.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository constructs a repository backed by sqlx.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const productColumns = `id, name, price, shop_id, created_at, updated_at`

// Create inserts a new row and returns the stored representation.
func (r *PostgresRepository) Create(ctx context.Context, product Product) (Product, error) {
	const insert = `
		INSERT INTO products (id, name, price, shop_id, created_at, updated_at)
		VALUES (:id, :name, :price, :shop_id, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, insert, product); err != nil {
		return Product{}, fmt.Errorf("insert product: %w", err)
	}

	return product, nil
}

// Get retrieves a row by primary key.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	var product Product
	if err := r.db.GetContext(ctx, &product, `SELECT `+productColumns+` FROM products WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// List returns all products ordered by name.
func (r *PostgresRepository) List(ctx context.Context) ([]Product, error) {
	products := []Product{}
	if err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// Search returns products whose name contains the query, case-insensitively.
// The query is matched literally, so LIKE metacharacters in it are escaped.
func (r *PostgresRepository) Search(ctx context.Context, query string) ([]Product, error) {
	products := []Product{}
	const search = `SELECT ` + productColumns + ` FROM products WHERE name ILIKE '%' || $1 || '%' ORDER BY name`
	if err := r.db.SelectContext(ctx, &products, search, escapeLikePattern(query)); err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLikePattern neutralizes LIKE/ILIKE metacharacters so a user query
// matches as a plain substring.
func escapeLikePattern(query string) string {
	return likeEscaper.Replace(query)
}

// Update rewrites the mutable columns of an existing product.
func (r *PostgresRepository) Update(ctx context.Context, product Product) (Product, error) {
	const update = `
		UPDATE products
		SET name = :name, price = :price, shop_id = :shop_id, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, update, product)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return Product{}, ErrNotFound
	}

	return product, nil
}

// Delete removes a product by primary key.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
