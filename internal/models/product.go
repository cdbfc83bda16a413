// Package models holds the data structures shared between the repository,
// service, and handler layers: database row projections and the JSON shapes
// returned by the command endpoint.
package models

import "github.com/shopspring/decimal"

// Product is the full catalog row, returned by get_product_details.
//
// Money columns use shopspring decimal so Postgres numeric values survive
// the round trip without float rounding. Stock is a pointer because NULL
// stock means "unlimited"; the tiered unit prices are optional per product.
type Product struct {
	ID          int64            `json:"id" db:"id"`
	ProductCode string           `json:"product_code" db:"product_code"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Price       decimal.Decimal  `json:"price" db:"price"`
	Stock       *int64           `json:"stock" db:"stock"`
	Size        *string          `json:"size" db:"size"`
	Color       *string          `json:"color" db:"color"`
	Category    *string          `json:"category" db:"category"`
	Price50U    *decimal.Decimal `json:"price_50_u" db:"price_50_u"`
	Price100U   *decimal.Decimal `json:"price_100_u" db:"price_100_u"`
	Price200U   *decimal.Decimal `json:"price_200_u" db:"price_200_u"`
	Available   bool             `json:"available" db:"available"`
}

// ProductSummary is the listing projection used by list_products.
// It omits the surrogate id and the availability flag: listings only ever
// contain available products.
type ProductSummary struct {
	ProductCode string           `json:"product_code" db:"product_code"`
	Name        string           `json:"name" db:"name"`
	Description string           `json:"description" db:"description"`
	Price       decimal.Decimal  `json:"price" db:"price"`
	Stock       *int64           `json:"stock" db:"stock"`
	Size        *string          `json:"size" db:"size"`
	Color       *string          `json:"color" db:"color"`
	Category    *string          `json:"category" db:"category"`
	Price50U    *decimal.Decimal `json:"price_50_u" db:"price_50_u"`
	Price100U   *decimal.Decimal `json:"price_100_u" db:"price_100_u"`
	Price200U   *decimal.Decimal `json:"price_200_u" db:"price_200_u"`
}

// ProductRef is the minimal projection cart mutations need: the surrogate id
// to key cart_items on, plus availability and stock for the guard checks.
type ProductRef struct {
	ID        int64  `db:"id"`
	Available bool   `db:"available"`
	Stock     *int64 `db:"stock"`
}

// ListProductsResponse is the success shape of the list_products action.
type ListProductsResponse struct {
	Count    int              `json:"count"`
	Products []ProductSummary `json:"products"`
}

// ProductDetailResponse is the success shape of the get_product_details action.
type ProductDetailResponse struct {
	Product Product `json:"product"`
}
