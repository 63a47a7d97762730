package postgres

import (
	"context"
	"errors"
	"fmt"

	"productservice/internal/platform/observability"
	"productservice/internal/product"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stock has no CHECK constraint: bulk consumption is allowed to drive it negative.
const schema = `CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	descr TEXT NOT NULL DEFAULT '',
	img TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL DEFAULT '',
	stock INT NOT NULL,
	price NUMERIC(12,2) NOT NULL DEFAULT 0,
	available BOOLEAN NOT NULL,
	seller TEXT NOT NULL DEFAULT '',
	version BIGINT NOT NULL DEFAULT 1,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS products_type_idx ON products (type);`

const selectColumns = `id, name, descr, img, type, stock, price::text, available, seller, version, created_at, updated_at`

type Store struct {
	pool   *pgxpool.Pool
	logger observability.Logger
}

func NewStore(pool *pgxpool.Pool, logger observability.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// Migrate creates the products table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate products: %w", err)
	}
	s.logger.Info("🗄️ Products schema ready")
	return nil
}

func (s *Store) Create(ctx context.Context, p product.Product) (*product.Product, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO products (id, name, descr, img, type, stock, price, available, seller)
		VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8, $9)
		RETURNING `+selectColumns,
		p.ID, p.Name, p.Desc, p.Img, p.Type, p.Stock, p.Price.String(), p.Available, p.Seller,
	)
	created, err := scanProduct(row)
	if err != nil {
		return nil, fmt.Errorf("insert product %s: %w", p.ID, err)
	}
	return created, nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*product.Product, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, product.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", id, err)
	}
	return p, nil
}

// Save writes p only if the stored version still equals p.Version.
func (s *Store) Save(ctx context.Context, p product.Product) (*product.Product, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	row := tx.QueryRow(ctx, `
		UPDATE products
		SET name = $2, descr = $3, img = $4, type = $5, stock = $6, price = $7::numeric,
			available = $8, seller = $9, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $10
		RETURNING `+selectColumns,
		p.ID, p.Name, p.Desc, p.Img, p.Type, p.Stock, p.Price.String(), p.Available, p.Seller, p.Version,
	)
	saved, err := scanProduct(row)
	if errors.Is(err, pgx.ErrNoRows) {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, p.ID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("save product %s: %w", p.ID, err)
		}
		if !exists {
			return nil, fmt.Errorf("product %s: %w", p.ID, product.ErrNotFound)
		}
		s.logger.Warn("⚠️ Stale product version", zap.String("product_id", p.ID), zap.Int64("version", p.Version))
		return nil, fmt.Errorf("product %s version %d: %w", p.ID, p.Version, product.ErrVersionConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("save product %s: %w", p.ID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *Store) List(ctx context.Context) ([]product.Product, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM products ORDER BY created_at, id`)
}

func (s *Store) FindByCategory(ctx context.Context, category string) ([]product.Product, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM products WHERE type = $1 ORDER BY created_at, id`, category)
}

func (s *Store) FindByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	return s.query(ctx, `SELECT `+selectColumns+` FROM products WHERE id = ANY($1) ORDER BY created_at, id`, ids)
}

func (s *Store) query(ctx context.Context, sql string, args ...any) ([]product.Product, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []product.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func scanProduct(row pgx.Row) (*product.Product, error) {
	var (
		p     product.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Desc, &p.Img, &p.Type, &p.Stock, &price, &p.Available, &p.Seller, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}
