package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebot/api/internal/errs"
	"github.com/storebot/api/internal/models"
)

func int64ptr(v int64) *int64 { return &v }

// newCartFixture builds a CartService over fakes with three products:
// "001" (stock 10), "002" (unlimited stock), "003" (unavailable).
func newCartFixture() (*CartService, *fakeCartStore) {
	products := &fakeProductStore{products: []fakeProduct{
		{
			ref:  models.ProductRef{ID: 1, Available: true, Stock: int64ptr(10)},
			full: models.Product{ID: 1, ProductCode: "001", Name: "Shirt", Price: decimal.NewFromInt(20), Available: true},
		},
		{
			ref:  models.ProductRef{ID: 2, Available: true, Stock: nil},
			full: models.Product{ID: 2, ProductCode: "002", Name: "Sticker", Price: decimal.NewFromInt(1), Available: true},
		},
		{
			ref:  models.ProductRef{ID: 3, Available: false, Stock: int64ptr(5)},
			full: models.Product{ID: 3, ProductCode: "003", Name: "Retired", Price: decimal.NewFromInt(9)},
		},
	}}

	carts := newFakeCartStore()
	logger := zerolog.Nop()
	return NewCartService(products, carts, &logger), carts
}

func requireHTTPError(t *testing.T, err error) *errs.HTTPError {
	t.Helper()
	require.Error(t, err)
	httpErr, ok := err.(*errs.HTTPError)
	require.True(t, ok, "expected *errs.HTTPError, got %T", err)
	return httpErr
}

func TestCreateCart(t *testing.T) {
	svc, _ := newCartFixture()

	res, err := svc.CreateCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.CartID)

	res, err = svc.CreateCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.CartID)
}

func TestGetCartUnknownIDIsEmpty(t *testing.T) {
	svc, _ := newCartFixture()

	res, err := svc.GetCart(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, int64(999), res.CartID)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestUpdateCartAddFlow(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	// First add creates the line.
	res, err := svc.UpdateCart(ctx, 1, OpAdd, "001", 7)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Status)
	assert.Equal(t, "001", res.ProductCode)
	require.NotNil(t, res.Qty)
	assert.Equal(t, int64(7), *res.Qty)

	// Adding past the stock of 10 is rejected with the totals echoed.
	_, err = svc.UpdateCart(ctx, 1, OpAdd, "001", 5)
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "Insufficient stock", httpErr.Message)
	assert.Equal(t, int64(10), httpErr.Extra["stock"])
	assert.Equal(t, int64(12), httpErr.Extra["requested"])

	// A second add within stock merges into the existing line.
	res, err = svc.UpdateCart(ctx, 1, OpAdd, "001", 2)
	require.NoError(t, err)
	assert.Equal(t, "updated", res.Status)
	require.NotNil(t, res.Qty)
	assert.Equal(t, int64(9), *res.Qty)

	rows := carts.rowsFor(1, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].Qty)
}

func TestUpdateCartAddUnlimitedStock(t *testing.T) {
	svc, _ := newCartFixture()

	// NULL stock means no limit at all.
	res, err := svc.UpdateCart(context.Background(), 1, OpAdd, "002", 5000)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Status)
}

func TestUpdateCartSetQty(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	// set_qty on an absent line inserts it.
	res, err := svc.UpdateCart(ctx, 1, OpSetQty, "001", 4)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Status)

	// set_qty replaces, it does not accumulate.
	res, err = svc.UpdateCart(ctx, 1, OpSetQty, "001", 10)
	require.NoError(t, err)
	assert.Equal(t, "updated", res.Status)
	require.NotNil(t, res.Qty)
	assert.Equal(t, int64(10), *res.Qty)

	// Over stock is rejected against the requested quantity alone.
	_, err = svc.UpdateCart(ctx, 1, OpSetQty, "001", 11)
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, int64(11), httpErr.Extra["requested"])

	// Zero deletes the line.
	res, err = svc.UpdateCart(ctx, 1, OpSetQty, "001", 0)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
	assert.Nil(t, res.Qty)
	assert.Empty(t, carts.rowsFor(1, 1))

	// Zero on an already-absent line still succeeds.
	res, err = svc.UpdateCart(ctx, 1, OpSetQty, "001", 0)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
}

func TestUpdateCartRemoveIsIdempotent(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	_, err := svc.UpdateCart(ctx, 1, OpAdd, "001", 3)
	require.NoError(t, err)

	res, err := svc.UpdateCart(ctx, 1, OpRemove, "001", 0)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
	assert.Nil(t, res.Qty)
	assert.Empty(t, carts.rowsFor(1, 1))

	// Removing again reports the same outcome.
	res, err = svc.UpdateCart(ctx, 1, OpRemove, "001", 0)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
}

func TestUpdateCartUnknownProduct(t *testing.T) {
	svc, _ := newCartFixture()

	_, err := svc.UpdateCart(context.Background(), 1, OpAdd, "999", 1)
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, 404, httpErr.Status)
	assert.Equal(t, "Product not found", httpErr.Message)
	assert.Equal(t, "999", httpErr.Extra["product_code_received"])
}

func TestUpdateCartUnavailableProduct(t *testing.T) {
	svc, _ := newCartFixture()

	_, err := svc.UpdateCart(context.Background(), 1, OpAdd, "003", 1)
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "Product not available", httpErr.Message)
}

func TestUpdateCartEchoesPaddedCode(t *testing.T) {
	svc, _ := newCartFixture()

	// Looking up "1" matches the product stored as "001" and the
	// response echoes the padded form.
	res, err := svc.UpdateCart(context.Background(), 1, OpAdd, "1", 2)
	require.NoError(t, err)
	assert.Equal(t, "001", res.ProductCode)
}

func TestAddToCartLegacyAppendsDuplicates(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	res, err := svc.AddToCart(ctx, 1, "001", 7)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Status)

	// The legacy flow checks stock only against the requested quantity,
	// so a second add of 7 passes despite 7+7 > 10, and it inserts a
	// second row instead of merging.
	res, err = svc.AddToCart(ctx, 1, "001", 7)
	require.NoError(t, err)
	assert.Equal(t, "added", res.Status)

	rows := carts.rowsFor(1, 1)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(7), rows[0].Qty)
	assert.Equal(t, int64(7), rows[1].Qty)
}

func TestAddToCartLegacyGuards(t *testing.T) {
	svc, _ := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, "999", 1)
	httpErr := requireHTTPError(t, err)
	assert.Equal(t, 404, httpErr.Status)
	// Unlike update_cart, the legacy 404 carries no extra fields.
	assert.Nil(t, httpErr.Extra)

	_, err = svc.AddToCart(ctx, 1, "001", 11)
	httpErr = requireHTTPError(t, err)
	assert.Equal(t, 409, httpErr.Status)
	assert.Equal(t, "Insufficient stock", httpErr.Message)
}

func TestUpdateCartItemLegacy(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, "001", 2)
	require.NoError(t, err)
	itemID := carts.rowsFor(1, 1)[0].ID

	res, err := svc.UpdateCartItem(ctx, itemID, 5)
	require.NoError(t, err)
	assert.Equal(t, "updated", res.Status)
	assert.Equal(t, itemID, res.ItemID)
	require.NotNil(t, res.Qty)
	assert.Equal(t, int64(5), *res.Qty)

	// Zero deletes the row.
	res, err = svc.UpdateCartItem(ctx, itemID, 0)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
	assert.Nil(t, res.Qty)
	assert.Empty(t, carts.rowsFor(1, 1))
}

func TestRemoveCartItemLegacy(t *testing.T) {
	svc, carts := newCartFixture()
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, 1, "001", 2)
	require.NoError(t, err)
	itemID := carts.rowsFor(1, 1)[0].ID

	res, err := svc.RemoveCartItem(ctx, itemID)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
	assert.Empty(t, carts.rowsFor(1, 1))

	// Unknown ids still report removed.
	res, err = svc.RemoveCartItem(ctx, 12345)
	require.NoError(t, err)
	assert.Equal(t, "removed", res.Status)
}
