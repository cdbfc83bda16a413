package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This is the workhorse for validation failures and unknown actions; the
// message is field-specific and goes to the client verbatim.
func NewBadRequestError(message string) *HTTPError {
	return &HTTPError{
		// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest)),
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// extra may carry contextual fields for the response body, e.g. the
// product_code_received echo on an unknown product code. nil is fine.
func NewNotFoundError(message string, extra map[string]any) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound)),
		Message: message,
		Status:  http.StatusNotFound,
		Extra:   extra,
	}
}

// NewConflictError creates a 409 Conflict HTTPError.
//
// Used for "Product not available" and "Insufficient stock"; extra carries
// the stock level and requested quantity so the caller can decide a
// corrective action.
func NewConflictError(message string, extra map[string]any) *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusConflict)),
		Message: message,
		Status:  http.StatusConflict,
		Extra:   extra,
	}
}

// NewMethodNotAllowedError creates the 405 returned for anything but POST.
func NewMethodNotAllowedError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusMethodNotAllowed)),
		Message: "Method not allowed",
		Status:  http.StatusMethodNotAllowed,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, not the real internal error:
// store-level faults are logged with full detail but never leak to clients.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:    MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message: http.StatusText(http.StatusInternalServerError),
		Status:  http.StatusInternalServerError,
	}
}
