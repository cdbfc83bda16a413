package models

import "github.com/shopspring/decimal"

// CartItem is a cart_items row. Qty is strictly positive while the row
// exists; a quantity of zero is expressed by deleting the row.
type CartItem struct {
	ID        int64 `db:"id"`
	CartID    int64 `db:"cart_id"`
	ProductID int64 `db:"product_id"`
	Qty       int64 `db:"qty"`
}

// CartLine is the cart_items/products join projection returned by get_cart.
type CartLine struct {
	ItemID      int64            `json:"item_id" db:"item_id"`
	Qty         int64            `json:"qty" db:"qty"`
	ProductCode string           `json:"product_code" db:"product_code"`
	Name        string           `json:"name" db:"name"`
	Price       decimal.Decimal  `json:"price" db:"price"`
	Price50U    *decimal.Decimal `json:"price_50_u" db:"price_50_u"`
	Price100U   *decimal.Decimal `json:"price_100_u" db:"price_100_u"`
	Price200U   *decimal.Decimal `json:"price_200_u" db:"price_200_u"`
}

// CreateCartResponse is the success shape of the create_cart action.
type CreateCartResponse struct {
	CartID int64 `json:"cart_id"`
}

// GetCartResponse is the success shape of the get_cart action.
type GetCartResponse struct {
	CartID int64      `json:"cart_id"`
	Items  []CartLine `json:"items"`
}

// CartMutationResponse is the success shape shared by update_cart and the
// legacy add_to_cart action. Qty is omitted for remove outcomes.
//
// ProductCode always echoes the zero-padded form of the requested code, even
// when the lookup matched on the raw form.
type CartMutationResponse struct {
	Status      string `json:"status"`
	CartID      int64  `json:"cart_id"`
	ProductCode string `json:"product_code"`
	Qty         *int64 `json:"qty,omitempty"`
}

// ItemMutationResponse is the success shape of the legacy update_cart_item
// and remove_cart_item actions, which address rows by item id directly.
type ItemMutationResponse struct {
	Status string `json:"status"`
	ItemID int64  `json:"item_id"`
	Qty    *int64 `json:"qty,omitempty"`
}

// HandoffResponse is the success shape of handoff_to_human. The actual
// conversation routing happens outside this service; the response only
// signals that it should occur.
type HandoffResponse struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// Int64Ptr returns a pointer to v, for the optional qty response fields.
func Int64Ptr(v int64) *int64 { return &v }
