package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/maisonnat/GauchoAPI/internal/models"
)

const schema = `
	CREATE TABLE IF NOT EXISTS products (
		url        TEXT PRIMARY KEY,
		name       TEXT NOT NULL,
		price      DOUBLE PRECISION NOT NULL CHECK (price >= 0),
		image_url  TEXT NOT NULL,
		timestamp  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// ProductRepository stores product records keyed by URL.
type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// EnsureSchema creates the products table when it does not exist yet.
func (r *ProductRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create products table: %w", err)
	}
	return nil
}

// Upsert inserts the record or, when the URL already exists, refreshes
// price, image_url and timestamp in place. Name and URL stay as first
// stored: the name is assumed stable for a given URL.
func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO products (url, name, price, image_url, timestamp)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (url) DO UPDATE SET
			price = EXCLUDED.price,
			image_url = EXCLUDED.image_url,
			timestamp = now()
		RETURNING timestamp`

	err := r.db.QueryRow(ctx, query, p.URL, p.Name, p.Price, p.ImageURL).Scan(&p.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}

	return nil
}

// GetByURL returns the stored record for url, or nil when absent.
func (r *ProductRepository) GetByURL(ctx context.Context, url string) (*models.Product, error) {
	query := `
		SELECT url, name, price, image_url, timestamp
		FROM products
		WHERE url = $1`

	p := &models.Product{}
	err := r.db.QueryRow(ctx, query, url).Scan(&p.URL, &p.Name, &p.Price, &p.ImageURL, &p.Timestamp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return p, nil
}

// Count returns the number of stored records.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}
