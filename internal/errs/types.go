// Package errs define custom error types and utilities.
//
// The command endpoint's wire contract for failures is a JSON object whose
// human-readable message lives under the "error" key, with optional
// contextual fields (stock, requested, product_code_received) flattened at
// the top level. HTTPError carries that contract plus the pieces the global
// error handler and the logs need: an HTTP status and a machine code.
package errs

import (
	"encoding/json"
	"strings"
)

// HTTPError is the error type every layer returns for request failures.
//
// It implements the `error` interface via Error().
// Fields:
//   - Code: machine-friendly code for logs and traces (e.g. "BAD_REQUEST").
//   - Message: human-friendly message, serialized under the "error" JSON key.
//   - Status: HTTP status code. Not serialized; the envelope carries it.
//   - Extra: optional contextual fields merged into the response object,
//     letting a 409 echo the stock level and requested quantity.
type HTTPError struct {
	Code    string
	Message string
	Status  int
	Extra   map[string]any
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is customizes how errors.Is(...) treats HTTPError.
//
// It matches on type only, not on Code/Status, so
// errors.Is(err, &HTTPError{}) answers "is this one of ours".
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)
	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced,
// leaving the original template untouched.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:    e.Code,
		Message: message,
		Status:  e.Status,
		Extra:   e.Extra,
	}
}

// MarshalJSON flattens the error into the response envelope:
//
//	{ "error": "Insufficient stock", "stock": 10, "requested": 12 }
//
// Extra keys never override the "error" key.
func (e *HTTPError) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(e.Extra)+1)
	for k, v := range e.Extra {
		body[k] = v
	}
	body["error"] = e.Message
	return json.Marshal(body)
}

// MakeUpperCaseWithUnderscores converts a string into an
// UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
//
// Used to create stable machine-readable error codes from HTTP status text.
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
