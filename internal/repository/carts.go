package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/storebot/api/internal/models"
)

// CartsRepository runs cart and cart-item queries.
type CartsRepository struct {
	db *pgxpool.Pool
}

// NewCartsRepository creates a CartsRepository backed by the pool.
func NewCartsRepository(db *pgxpool.Pool) *CartsRepository {
	return &CartsRepository{db: db}
}

// CreateCart inserts an empty cart and returns its id.
func (r *CartsRepository) CreateCart(ctx context.Context) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `INSERT INTO carts DEFAULT VALUES RETURNING id`).Scan(&id)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create cart")
	}
	return id, nil
}

// ListItems returns every line in a cart joined with its product columns.
//
// An unknown cart id simply yields zero rows; carts are not checked for
// existence here.
func (r *CartsRepository) ListItems(ctx context.Context, cartID int64) ([]models.CartLine, error) {
	sql := `
		SELECT
			ci.id AS item_id,
			ci.qty,
			p.product_code,
			p.name,
			p.price,
			p.price_50_u,
			p.price_100_u,
			p.price_200_u
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
	`

	rows, err := r.db.Query(ctx, sql, cartID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cart items")
	}

	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CartLine])
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect cart item rows")
	}

	return items, nil
}

// FindItem returns one cart line for the given product, or (nil, nil)
// when the product is not in the cart.
//
// Carts may hold duplicate rows for a product (the legacy add flow
// appends instead of merging), so LIMIT 1 picks an arbitrary one.
func (r *CartsRepository) FindItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error) {
	sql := `
		SELECT id, cart_id, product_id, qty
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
		LIMIT 1
	`

	rows, err := r.db.Query(ctx, sql, cartID, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cart item")
	}

	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.CartItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to collect cart item row")
	}

	return &item, nil
}

// InsertItem adds a new line to a cart.
func (r *CartsRepository) InsertItem(ctx context.Context, cartID, productID, qty int64) error {
	sql := `INSERT INTO cart_items (cart_id, product_id, qty) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, sql, cartID, productID, qty); err != nil {
		return errors.Wrap(err, "failed to insert cart item")
	}
	return nil
}

// UpdateItemQty sets the quantity of a line addressed by id, scoped to
// its cart.
func (r *CartsRepository) UpdateItemQty(ctx context.Context, itemID, cartID, qty int64) error {
	sql := `UPDATE cart_items SET qty = $1 WHERE id = $2 AND cart_id = $3`
	if _, err := r.db.Exec(ctx, sql, qty, itemID, cartID); err != nil {
		return errors.Wrap(err, "failed to update cart item qty")
	}
	return nil
}

// DeleteItem removes a line addressed by id, scoped to its cart.
func (r *CartsRepository) DeleteItem(ctx context.Context, itemID, cartID int64) error {
	sql := `DELETE FROM cart_items WHERE id = $1 AND cart_id = $2`
	if _, err := r.db.Exec(ctx, sql, itemID, cartID); err != nil {
		return errors.Wrap(err, "failed to delete cart item")
	}
	return nil
}

// SetItemQty sets the quantity of a line by id alone. Used by the legacy
// item actions, which do not carry a cart id.
func (r *CartsRepository) SetItemQty(ctx context.Context, itemID, qty int64) error {
	sql := `UPDATE cart_items SET qty = $1 WHERE id = $2`
	if _, err := r.db.Exec(ctx, sql, qty, itemID); err != nil {
		return errors.Wrap(err, "failed to set cart item qty")
	}
	return nil
}

// DeleteItemByID removes a line by id alone. Used by the legacy item
// actions.
func (r *CartsRepository) DeleteItemByID(ctx context.Context, itemID int64) error {
	sql := `DELETE FROM cart_items WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, itemID); err != nil {
		return errors.Wrap(err, "failed to delete cart item by id")
	}
	return nil
}
