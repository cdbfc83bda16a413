// Package validation contains the logic for validating request data.
//
// The command endpoint does not use struct tags for its parameters: every
// action shares one loosely-typed `params` object, so validation is a matter
// of coercing individual values (IntValue, StringValue) and checking them in
// the action branch. This package owns the envelope binding and those shared
// coercion predicates.
package validation

import (
	"github.com/labstack/echo/v4"

	"github.com/storebot/api/internal/errs"
)

// Validatable is implemented by request payload types that know how to
// validate themselves after binding.
type Validatable interface {
	Validate() error
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
//  1. c.Bind(payload) populates the struct from the request body.
//  2. payload.Validate() applies whatever rules the payload defines.
//
// A body that does not parse as JSON is a client fault and maps to the
// fixed "Invalid JSON" message; Echo's bind error detail is not surfaced.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError("Invalid JSON")
	}

	if err := payload.Validate(); err != nil {
		return err
	}

	return nil
}
