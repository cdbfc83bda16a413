package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebot/api/internal/middleware"
	"github.com/storebot/api/internal/models"
	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/service"
)

// stubProducts serves one in-stock product ("001", stock 10) and one
// unavailable product ("003").
type stubProducts struct{}

func (stubProducts) ListAvailable(context.Context, string) ([]models.ProductSummary, error) {
	return []models.ProductSummary{
		{ProductCode: "001", Name: "Shirt", Price: decimal.NewFromInt(20)},
	}, nil
}

func (stubProducts) FindByCode(_ context.Context, code, padded string) (*models.Product, error) {
	if code == "001" || padded == "001" {
		return &models.Product{ID: 1, ProductCode: "001", Name: "Shirt", Price: decimal.NewFromInt(20), Available: true}, nil
	}
	return nil, nil
}

func (stubProducts) FindRefByCode(_ context.Context, code, padded string) (*models.ProductRef, error) {
	stock := int64(10)
	switch {
	case code == "001" || padded == "001":
		return &models.ProductRef{ID: 1, Available: true, Stock: &stock}, nil
	case code == "003" || padded == "003":
		return &models.ProductRef{ID: 3, Available: false}, nil
	}
	return nil, nil
}

// stubCarts records mutations without real persistence.
type stubCarts struct {
	items map[int64]models.CartItem // keyed by item id
	next  int64
}

func newStubCarts() *stubCarts { return &stubCarts{items: map[int64]models.CartItem{}} }

func (s *stubCarts) CreateCart(context.Context) (int64, error) { return 7, nil }

func (s *stubCarts) ListItems(context.Context, int64) ([]models.CartLine, error) {
	return nil, nil
}

func (s *stubCarts) FindItem(_ context.Context, cartID, productID int64) (*models.CartItem, error) {
	for _, it := range s.items {
		if it.CartID == cartID && it.ProductID == productID {
			item := it
			return &item, nil
		}
	}
	return nil, nil
}

func (s *stubCarts) InsertItem(_ context.Context, cartID, productID, qty int64) error {
	s.next++
	s.items[s.next] = models.CartItem{ID: s.next, CartID: cartID, ProductID: productID, Qty: qty}
	return nil
}

func (s *stubCarts) UpdateItemQty(_ context.Context, itemID, _, qty int64) error {
	it := s.items[itemID]
	it.Qty = qty
	s.items[itemID] = it
	return nil
}

func (s *stubCarts) DeleteItem(_ context.Context, itemID, _ int64) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubCarts) SetItemQty(_ context.Context, itemID, qty int64) error {
	it := s.items[itemID]
	it.Qty = qty
	s.items[itemID] = it
	return nil
}

func (s *stubCarts) DeleteItemByID(_ context.Context, itemID int64) error {
	delete(s.items, itemID)
	return nil
}

// newTestRouter wires the command endpoint the way the real router does,
// over stub stores and without optional infrastructure.
func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()

	logger := zerolog.Nop()
	srv := &server.Server{Logger: &logger}

	services := &service.Services{
		Catalog: service.NewCatalogService(stubProducts{}, &logger),
		Cart:    service.NewCartService(stubProducts{}, newStubCarts(), &logger),
	}

	h := NewCommandsHandler(srv, services)

	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(srv).GlobalErrorHandler
	e.POST("/", Handle(
		h.Dispatch,
		http.StatusOK,
		func() *CommandRequest { return &CommandRequest{} },
	))

	return e
}

// do posts a raw body to the command endpoint and decodes the response.
func do(t *testing.T, e *echo.Echo, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	return rec.Code, decoded
}

func TestDispatchInvalidJSON(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, "{not json")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid JSON", body["error"])
}

func TestDispatchUnknownAction(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"teleport"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown action", body["error"])

	// A missing action lands in the same branch.
	status, body = do(t, e, `{"params":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Unknown action", body["error"])
}

func TestMethodNotAllowed(t *testing.T) {
	e := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Method not allowed", body["error"])
}

func TestListProducts(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"list_products","params":{}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["count"])
}

func TestGetProductDetailsValidation(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"get_product_details","params":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "product_code is required", body["error"])

	// Whitespace-only code is treated as missing.
	status, body = do(t, e, `{"action":"get_product_details","params":{"product_code":"  "}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "product_code is required", body["error"])

	status, body = do(t, e, `{"action":"get_product_details","params":{"product_code":"999"}}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["error"])
}

func TestGetProductDetailsNumericCode(t *testing.T) {
	e := newTestRouter(t)

	// The JSON number 1 coerces to "1" and pads to "001".
	status, body := do(t, e, `{"action":"get_product_details","params":{"product_code":1}}`)
	assert.Equal(t, http.StatusOK, status)
	product := body["product"].(map[string]any)
	assert.Equal(t, "001", product["product_code"])
}

func TestCreateCart(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"create_cart","params":{}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(7), body["cart_id"])
}

func TestGetCartValidation(t *testing.T) {
	e := newTestRouter(t)

	for _, payload := range []string{
		`{"action":"get_cart","params":{}}`,
		`{"action":"get_cart","params":{"cart_id":0}}`,
		`{"action":"get_cart","params":{"cart_id":-1}}`,
		`{"action":"get_cart","params":{"cart_id":1.5}}`,
		`{"action":"get_cart","params":{"cart_id":"abc"}}`,
	} {
		status, body := do(t, e, payload)
		assert.Equal(t, http.StatusBadRequest, status, payload)
		assert.Equal(t, "cart_id is required (integer > 0)", body["error"], payload)
	}
}

func TestUpdateCartValidationOrder(t *testing.T) {
	e := newTestRouter(t)

	// cart_id first.
	status, body := do(t, e, `{"action":"update_cart","params":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cart_id is required (integer > 0)", body["error"])

	// op presence next.
	status, body = do(t, e, `{"action":"update_cart","params":{"cart_id":1}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "op is required: add | set_qty | remove", body["error"])

	// op membership is checked before any store access, so a bogus op
	// with a bogus product still reports the op problem.
	status, body = do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"explode","product_code":"999"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid op. Use add | set_qty | remove", body["error"])

	// product_code after op.
	status, body = do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "product_code is required", body["error"])

	// qty shape for ops that need it.
	status, body = do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"001","qty":"x"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "qty must be an integer >= 0", body["error"])

	// add rejects zero before resolving the product.
	status, body = do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"999","qty":0}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "qty must be > 0 for op=add (use set_qty or remove)", body["error"])
}

func TestUpdateCartHappyPath(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"1","qty":2}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "added", body["status"])
	assert.Equal(t, float64(1), body["cart_id"])
	assert.Equal(t, "001", body["product_code"])
	assert.Equal(t, float64(2), body["qty"])
}

func TestUpdateCartInsufficientStockEnvelope(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"001","qty":11}}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Insufficient stock", body["error"])
	assert.Equal(t, float64(10), body["stock"])
	assert.Equal(t, float64(11), body["requested"])
}

func TestUpdateCartNotFoundEnvelope(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"999","qty":1}}`)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Product not found", body["error"])
	assert.Equal(t, "999", body["product_code_received"])
}

func TestUpdateCartUnavailableEnvelope(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"update_cart","params":{"cart_id":1,"op":"add","product_code":"003","qty":1}}`)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Product not available", body["error"])
}

func TestLegacyActionValidation(t *testing.T) {
	e := newTestRouter(t)

	status, body := do(t, e, `{"action":"add_to_cart","params":{"cart_id":1,"product_code":"001"}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "cart_id (int>0), product_code and qty (int>0) are required", body["error"])

	status, body = do(t, e, `{"action":"update_cart_item","params":{"item_id":1,"qty":-1}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "item_id (int>0) and qty (int>=0) are required", body["error"])

	status, body = do(t, e, `{"action":"remove_cart_item","params":{}}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "item_id (int>0) is required", body["error"])
}

func TestHandoffToHuman(t *testing.T) {
	e := newTestRouter(t)

	// No job worker is wired in tests; the acknowledgment must not
	// depend on it.
	status, body := do(t, e, `{"action":"handoff_to_human","params":{}}`)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "handoff_requested", body["status"])
	assert.Equal(t, "Conversation should be routed to human agent in Chatwoot", body["note"])
}
