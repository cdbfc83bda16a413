package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/errs"
	"github.com/storebot/api/internal/models"
)

// Cart operation names accepted by UpdateCart.
const (
	OpAdd    = "add"
	OpSetQty = "set_qty"
	OpRemove = "remove"
)

// CartService implements the cart mutations and reads.
//
// Mutations are single-statement writes; there is no transaction across
// the stock check and the insert/update. A concurrent mutation can
// therefore oversell in a narrow race, which matches the behavior of the
// original chat deployment this service replaced.
type CartService struct {
	products ProductStore
	carts    CartStore
	logger   *zerolog.Logger
}

// NewCartService wires a CartService to its stores.
func NewCartService(products ProductStore, carts CartStore, logger *zerolog.Logger) *CartService {
	return &CartService{
		products: products,
		carts:    carts,
		logger:   logger,
	}
}

// CreateCart creates an empty cart and returns its id.
func (s *CartService) CreateCart(ctx context.Context) (*models.CreateCartResponse, error) {
	id, err := s.carts.CreateCart(ctx)
	if err != nil {
		return nil, err
	}
	return &models.CreateCartResponse{CartID: id}, nil
}

// GetCart returns the cart's lines joined with product data.
//
// An unknown cart id is not an error; it reads as an empty cart.
func (s *CartService) GetCart(ctx context.Context, cartID int64) (*models.GetCartResponse, error) {
	items, err := s.carts.ListItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartLine{}
	}
	return &models.GetCartResponse{CartID: cartID, Items: items}, nil
}

// resolveProduct finds the product for a cart mutation and runs the
// shared guards: existence and availability.
//
// notFoundExtra lets callers attach contextual fields to the 404 body;
// the modern update flow echoes the received code, the legacy add flow
// does not.
func (s *CartService) resolveProduct(ctx context.Context, code string, notFoundExtra map[string]any) (*models.ProductRef, error) {
	raw, padded := CodeCandidates(code)

	ref, err := s.products.FindRefByCode(ctx, raw, padded)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, errs.NewNotFoundError("Product not found", notFoundExtra)
	}
	if !ref.Available {
		return nil, errs.NewConflictError("Product not available", nil)
	}
	return ref, nil
}

// insufficientStock builds the 409 for a quantity exceeding stock. The
// body echoes the stock level and the requested final quantity.
func insufficientStock(stock, requested int64) *errs.HTTPError {
	return errs.NewConflictError("Insufficient stock", map[string]any{
		"stock":     stock,
		"requested": requested,
	})
}

// UpdateCart applies one operation to a cart line identified by product
// code.
//
// Semantics per op:
//   - add: increase the line by qty (creating it if absent), guarded
//     against stock on the resulting total.
//   - set_qty: set the line to exactly qty; zero deletes the line, and
//     setting an absent line to zero is a successful no-op.
//   - remove: delete the line; removing an absent line still reports
//     "removed".
//
// A NULL product stock means unlimited and skips the stock guard. The
// response echoes the zero-padded product code regardless of which form
// the lookup matched.
func (s *CartService) UpdateCart(ctx context.Context, cartID int64, op, code string, qty int64) (*models.CartMutationResponse, error) {
	ref, err := s.resolveProduct(ctx, code, map[string]any{
		"product_code_received": code,
	})
	if err != nil {
		return nil, err
	}

	_, padded := CodeCandidates(code)

	item, err := s.carts.FindItem(ctx, cartID, ref.ID)
	if err != nil {
		return nil, err
	}

	switch op {
	case OpAdd:
		current := int64(0)
		if item != nil {
			current = item.Qty
		}
		final := current + qty

		if ref.Stock != nil && final > *ref.Stock {
			return nil, insufficientStock(*ref.Stock, final)
		}

		if item != nil {
			if err := s.carts.UpdateItemQty(ctx, item.ID, cartID, final); err != nil {
				return nil, err
			}
			return &models.CartMutationResponse{
				Status:      "updated",
				CartID:      cartID,
				ProductCode: padded,
				Qty:         models.Int64Ptr(final),
			}, nil
		}

		if err := s.carts.InsertItem(ctx, cartID, ref.ID, qty); err != nil {
			return nil, err
		}
		return &models.CartMutationResponse{
			Status:      "added",
			CartID:      cartID,
			ProductCode: padded,
			Qty:         models.Int64Ptr(qty),
		}, nil

	case OpSetQty:
		if item == nil {
			if qty > 0 {
				if ref.Stock != nil && qty > *ref.Stock {
					return nil, insufficientStock(*ref.Stock, qty)
				}
				if err := s.carts.InsertItem(ctx, cartID, ref.ID, qty); err != nil {
					return nil, err
				}
				return &models.CartMutationResponse{
					Status:      "added",
					CartID:      cartID,
					ProductCode: padded,
					Qty:         models.Int64Ptr(qty),
				}, nil
			}

			// Setting an absent line to zero succeeds without touching
			// the database.
			return &models.CartMutationResponse{
				Status:      "removed",
				CartID:      cartID,
				ProductCode: padded,
			}, nil
		}

		if qty == 0 {
			if err := s.carts.DeleteItem(ctx, item.ID, cartID); err != nil {
				return nil, err
			}
			return &models.CartMutationResponse{
				Status:      "removed",
				CartID:      cartID,
				ProductCode: padded,
			}, nil
		}

		if ref.Stock != nil && qty > *ref.Stock {
			return nil, insufficientStock(*ref.Stock, qty)
		}

		if err := s.carts.UpdateItemQty(ctx, item.ID, cartID, qty); err != nil {
			return nil, err
		}
		return &models.CartMutationResponse{
			Status:      "updated",
			CartID:      cartID,
			ProductCode: padded,
			Qty:         models.Int64Ptr(qty),
		}, nil

	case OpRemove:
		if item != nil {
			if err := s.carts.DeleteItem(ctx, item.ID, cartID); err != nil {
				return nil, err
			}
		}
		return &models.CartMutationResponse{
			Status:      "removed",
			CartID:      cartID,
			ProductCode: padded,
		}, nil
	}

	// The handler validates op before calling; this is a safety net.
	return nil, errs.NewBadRequestError("Invalid op. Use add | set_qty | remove")
}

// AddToCart is the legacy append-only add.
//
// Unlike UpdateCart's add op it never merges with an existing line: the
// stock guard considers only the requested quantity and a duplicate row
// is inserted if the product is already in the cart.
func (s *CartService) AddToCart(ctx context.Context, cartID int64, code string, qty int64) (*models.CartMutationResponse, error) {
	ref, err := s.resolveProduct(ctx, code, nil)
	if err != nil {
		return nil, err
	}

	_, padded := CodeCandidates(code)

	if ref.Stock != nil && qty > *ref.Stock {
		return nil, insufficientStock(*ref.Stock, qty)
	}

	if err := s.carts.InsertItem(ctx, cartID, ref.ID, qty); err != nil {
		return nil, err
	}

	return &models.CartMutationResponse{
		Status:      "added",
		CartID:      cartID,
		ProductCode: padded,
		Qty:         models.Int64Ptr(qty),
	}, nil
}

// UpdateCartItem is the legacy quantity update addressed by item id.
// Zero deletes the row. No stock guard applies; legacy clients resolved
// stock before calling.
func (s *CartService) UpdateCartItem(ctx context.Context, itemID, qty int64) (*models.ItemMutationResponse, error) {
	if qty == 0 {
		if err := s.carts.DeleteItemByID(ctx, itemID); err != nil {
			return nil, err
		}
		return &models.ItemMutationResponse{Status: "removed", ItemID: itemID}, nil
	}

	if err := s.carts.SetItemQty(ctx, itemID, qty); err != nil {
		return nil, err
	}
	return &models.ItemMutationResponse{
		Status: "updated",
		ItemID: itemID,
		Qty:    models.Int64Ptr(qty),
	}, nil
}

// RemoveCartItem is the legacy row delete addressed by item id. Deleting
// a nonexistent row still reports "removed".
func (s *CartService) RemoveCartItem(ctx context.Context, itemID int64) (*models.ItemMutationResponse, error) {
	if err := s.carts.DeleteItemByID(ctx, itemID); err != nil {
		return nil, err
	}
	return &models.ItemMutationResponse{Status: "removed", ItemID: itemID}, nil
}
