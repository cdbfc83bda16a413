package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/storebot/api/internal/models"
)

// ProductsRepository runs catalog queries against the products table.
type ProductsRepository struct {
	db *pgxpool.Pool
}

// NewProductsRepository creates a ProductsRepository backed by the pool.
func NewProductsRepository(db *pgxpool.Pool) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// ListAvailable returns the listing projection of every available product.
//
// pattern, when non-empty, is a pre-lowercased LIKE pattern matched against
// name and description.
func (r *ProductsRepository) ListAvailable(ctx context.Context, pattern string) ([]models.ProductSummary, error) {
	sql := `
		SELECT
			product_code,
			name,
			description,
			price,
			stock,
			size,
			color,
			category,
			price_50_u,
			price_100_u,
			price_200_u
		FROM products
		WHERE available
	`

	args := []any{}
	if pattern != "" {
		sql += `
			AND (
				LOWER(name) LIKE $1
				OR LOWER(description) LIKE $1
			)
		`
		args = append(args, pattern)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}

	products, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.ProductSummary])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect product rows")
	}

	return products, nil
}

// FindByCode returns the full product row matching either candidate code.
//
// Two candidates cover the raw form and the zero-padded form of numeric
// codes, so "1" finds a product stored as "001". Returns (nil, nil) when
// no product matches.
func (r *ProductsRepository) FindByCode(ctx context.Context, code, padded string) (*models.Product, error) {
	sql := `
		SELECT
			id,
			product_code,
			name,
			description,
			price,
			stock,
			size,
			color,
			category,
			price_50_u,
			price_100_u,
			price_200_u,
			available
		FROM products
		WHERE product_code = $1 OR product_code = $2
		LIMIT 1
	`

	rows, err := r.db.Query(ctx, sql, code, padded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query product by code")
	}

	product, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to collect product row")
	}

	return &product, nil
}

// FindRefByCode is FindByCode restricted to the columns cart mutations
// need. Returns (nil, nil) when no product matches.
func (r *ProductsRepository) FindRefByCode(ctx context.Context, code, padded string) (*models.ProductRef, error) {
	sql := `
		SELECT id, available, stock
		FROM products
		WHERE product_code = $1 OR product_code = $2
		LIMIT 1
	`

	rows, err := r.db.Query(ctx, sql, code, padded)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query product ref by code")
	}

	ref, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.ProductRef])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to collect product ref row")
	}

	return &ref, nil
}
