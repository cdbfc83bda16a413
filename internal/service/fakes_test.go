package service

import (
	"context"
	"strings"

	"github.com/storebot/api/internal/models"
)

// fakeProductStore serves canned products, matching the repository's
// lookup contract: (nil, nil) when no code matches.
type fakeProductStore struct {
	products []fakeProduct
}

type fakeProduct struct {
	ref     models.ProductRef
	full    models.Product
	summary models.ProductSummary
}

func (f *fakeProductStore) ListAvailable(_ context.Context, pattern string) ([]models.ProductSummary, error) {
	needle := strings.Trim(pattern, "%")
	var out []models.ProductSummary
	for _, p := range f.products {
		if !p.ref.Available {
			continue
		}
		if needle != "" {
			name := strings.ToLower(p.summary.Name)
			desc := strings.ToLower(p.summary.Description)
			if !strings.Contains(name, needle) && !strings.Contains(desc, needle) {
				continue
			}
		}
		out = append(out, p.summary)
	}
	return out, nil
}

func (f *fakeProductStore) FindByCode(_ context.Context, code, padded string) (*models.Product, error) {
	for _, p := range f.products {
		if p.full.ProductCode == code || p.full.ProductCode == padded {
			full := p.full
			return &full, nil
		}
	}
	return nil, nil
}

func (f *fakeProductStore) FindRefByCode(_ context.Context, code, padded string) (*models.ProductRef, error) {
	for _, p := range f.products {
		if p.full.ProductCode == code || p.full.ProductCode == padded {
			ref := p.ref
			return &ref, nil
		}
	}
	return nil, nil
}

// fakeCartStore keeps cart rows in memory, preserving the append-only
// duplicate-row behavior of the real table.
type fakeCartStore struct {
	nextCartID int64
	nextItemID int64
	items      []models.CartItem
	lines      map[int64][]models.CartLine
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{lines: map[int64][]models.CartLine{}}
}

func (f *fakeCartStore) CreateCart(_ context.Context) (int64, error) {
	f.nextCartID++
	return f.nextCartID, nil
}

func (f *fakeCartStore) ListItems(_ context.Context, cartID int64) ([]models.CartLine, error) {
	return f.lines[cartID], nil
}

func (f *fakeCartStore) FindItem(_ context.Context, cartID, productID int64) (*models.CartItem, error) {
	for _, it := range f.items {
		if it.CartID == cartID && it.ProductID == productID {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (f *fakeCartStore) InsertItem(_ context.Context, cartID, productID, qty int64) error {
	f.nextItemID++
	f.items = append(f.items, models.CartItem{
		ID:        f.nextItemID,
		CartID:    cartID,
		ProductID: productID,
		Qty:       qty,
	})
	return nil
}

func (f *fakeCartStore) UpdateItemQty(_ context.Context, itemID, cartID, qty int64) error {
	for i, it := range f.items {
		if it.ID == itemID && it.CartID == cartID {
			f.items[i].Qty = qty
		}
	}
	return nil
}

func (f *fakeCartStore) DeleteItem(_ context.Context, itemID, cartID int64) error {
	out := f.items[:0]
	for _, it := range f.items {
		if it.ID == itemID && it.CartID == cartID {
			continue
		}
		out = append(out, it)
	}
	f.items = out
	return nil
}

func (f *fakeCartStore) SetItemQty(_ context.Context, itemID, qty int64) error {
	for i, it := range f.items {
		if it.ID == itemID {
			f.items[i].Qty = qty
		}
	}
	return nil
}

func (f *fakeCartStore) DeleteItemByID(_ context.Context, itemID int64) error {
	out := f.items[:0]
	for _, it := range f.items {
		if it.ID == itemID {
			continue
		}
		out = append(out, it)
	}
	f.items = out
	return nil
}

// rowsFor returns the stored rows for one cart and product, for
// asserting on row counts and quantities.
func (f *fakeCartStore) rowsFor(cartID, productID int64) []models.CartItem {
	var out []models.CartItem
	for _, it := range f.items {
		if it.CartID == cartID && it.ProductID == productID {
			out = append(out, it)
		}
	}
	return out
}
