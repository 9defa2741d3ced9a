package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"phone-analytics/models"
)

const insertBatchSize = 50

// CatalogStore caches the cleaned product catalog in PostgreSQL.
type CatalogStore struct {
	db *sqlx.DB
}

// NewCatalogStore connects to PostgreSQL, waits for it to accept
// connections, runs schema migrations and returns a ready store.
func NewCatalogStore(ctx context.Context, dsn string) (*CatalogStore, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			_ = db.Close()
			return nil, fmt.Errorf("postgres: ping: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	s := NewCatalogStoreFromDB(db)
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return s, nil
}

// NewCatalogStoreFromDB wraps an existing connection without migrating.
func NewCatalogStoreFromDB(db *sqlx.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func (s *CatalogStore) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id         TEXT             PRIMARY KEY,
			name       TEXT             NOT NULL,
			brand      VARCHAR(64)      NOT NULL DEFAULT '',
			price      DOUBLE PRECISION NOT NULL DEFAULT 0,
			ram        DOUBLE PRECISION NOT NULL DEFAULT 0,
			battery    DOUBLE PRECISION NOT NULL DEFAULT 0,
			screen     DOUBLE PRECISION NOT NULL DEFAULT 0,
			storage    DOUBLE PRECISION NOT NULL DEFAULT 0,
			camera     DOUBLE PRECISION NOT NULL DEFAULT 0,
			processor  TEXT             NOT NULL DEFAULT '',
			year       INTEGER          NOT NULL DEFAULT 0,
			image_url  TEXT             NOT NULL DEFAULT '',
			fetched_at TIMESTAMPTZ      NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);
		CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);
	`)
	return err
}

// Write replaces the cached catalog with products in one transaction.
// An empty catalog leaves the cache untouched.
func (s *CatalogStore) Write(ctx context.Context, products []*models.Product) error {
	if len(products) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM products"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	for _, batch := range batches(products, insertBatchSize) {
		if _, err := tx.NamedExecContext(ctx, `
			INSERT INTO products (id, name, brand, price, ram, battery, screen, storage, camera, processor, year, image_url, fetched_at)
			VALUES (:id, :name, :brand, :price, :ram, :battery, :screen, :storage, :camera, :processor, :year, :image_url, :fetched_at)
		`, batch); err != nil {
			return fmt.Errorf("postgres: insert batch: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// FetchAll returns every cached product ordered by brand and name.
func (s *CatalogStore) FetchAll(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := s.db.SelectContext(ctx, &products, `
		SELECT id, name, brand, price, ram, battery, screen, storage, camera, processor, year, image_url, fetched_at
		FROM products
		ORDER BY brand, name
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) Close() error {
	return s.db.Close()
}

func batches(products []*models.Product, size int) [][]*models.Product {
	var out [][]*models.Product
	for i := 0; i < len(products); i += size {
		end := i + size
		if end > len(products) {
			end = len(products)
		}
		out = append(out, products[i:end])
	}
	return out
}
