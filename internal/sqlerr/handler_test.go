package sqlerr

import (
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storebot/api/internal/errs"
)

func TestMapCode(t *testing.T) {
	assert.Equal(t, UniqueViolation, MapCode("23505"))
	assert.Equal(t, ForeignKeyViolation, MapCode("23503"))
	assert.Equal(t, NotNullViolation, MapCode("23502"))
	assert.Equal(t, CheckViolation, MapCode("23514"))
	assert.Equal(t, ConnectionFailure, MapCode("08006"))
	assert.Equal(t, Other, MapCode("42601"))
}

func TestHandleErrorPassesThroughHTTPErrors(t *testing.T) {
	orig := errs.NewBadRequestError("product_code is required")

	got := HandleError(orig)
	assert.Same(t, error(orig), got)

	// Wrapped ones too.
	got = HandleError(errors.Wrap(orig, "dispatch"))
	var httpErr *errs.HTTPError
	require.ErrorAs(t, got, &httpErr)
	assert.Equal(t, "product_code is required", httpErr.Message)
}

func TestHandleErrorForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:       "ERROR",
		Code:           "23503",
		Message:        `insert or update on table "cart_items" violates foreign key constraint`,
		TableName:      "cart_items",
		ColumnName:     "cart_id",
		ConstraintName: "cart_items_cart_id_fkey",
	}

	got := HandleError(pgErr)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, got, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CART_ITEM_NOT_FOUND", httpErr.Code)
	assert.Equal(t, "The referenced cart does not exist", httpErr.Message)
}

func TestHandleErrorCheckViolation(t *testing.T) {
	pgErr := &pgconn.PgError{
		Severity:   "ERROR",
		Code:       "23514",
		TableName:  "cart_items",
		ColumnName: "qty",
	}

	got := HandleError(pgErr)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, got, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "CART_ITEM_INVALID", httpErr.Code)
}

func TestHandleErrorHidesInfrastructureFaults(t *testing.T) {
	// Connection failures and syntax errors must not leak detail.
	for _, code := range []string{"08006", "42601"} {
		got := HandleError(&pgconn.PgError{Severity: "FATAL", Code: code, Message: "secret internals"})

		var httpErr *errs.HTTPError
		require.ErrorAs(t, got, &httpErr)
		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.NotContains(t, httpErr.Message, "secret")
	}
}

func TestHandleErrorNoRows(t *testing.T) {
	got := HandleError(pgx.ErrNoRows)

	var httpErr *errs.HTTPError
	require.ErrorAs(t, got, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Resource not found", httpErr.Message)
}

func TestHandleErrorUnknown(t *testing.T) {
	got := HandleError(errors.New("boom"))

	var httpErr *errs.HTTPError
	require.ErrorAs(t, got, &httpErr)
	assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
}

func TestGenerateErrorCode(t *testing.T) {
	assert.Equal(t, "CART_ITEM_NOT_FOUND", generateErrorCode("cart_items", ForeignKeyViolation))
	assert.Equal(t, "PRODUCT_ALREADY_EXISTS", generateErrorCode("products", UniqueViolation))
	assert.Equal(t, "RECORD_ERROR", generateErrorCode("", Other))
}
