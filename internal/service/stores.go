package service

import (
	"context"

	"github.com/storebot/api/internal/models"
)

// ProductStore is the catalog access the services need. It is satisfied
// by repository.ProductsRepository and kept small so tests can fake it.
type ProductStore interface {
	ListAvailable(ctx context.Context, pattern string) ([]models.ProductSummary, error)
	FindByCode(ctx context.Context, code, padded string) (*models.Product, error)
	FindRefByCode(ctx context.Context, code, padded string) (*models.ProductRef, error)
}

// CartStore is the cart access the services need. It is satisfied by
// repository.CartsRepository.
type CartStore interface {
	CreateCart(ctx context.Context) (int64, error)
	ListItems(ctx context.Context, cartID int64) ([]models.CartLine, error)
	FindItem(ctx context.Context, cartID, productID int64) (*models.CartItem, error)
	InsertItem(ctx context.Context, cartID, productID, qty int64) error
	UpdateItemQty(ctx context.Context, itemID, cartID, qty int64) error
	DeleteItem(ctx context.Context, itemID, cartID int64) error
	SetItemQty(ctx context.Context, itemID, qty int64) error
	DeleteItemByID(ctx context.Context, itemID int64) error
}
