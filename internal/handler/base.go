package handler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/validation"
)

// Handler is the base embedded by every concrete handler. It exposes the
// application container so handlers can reach config, logger, job client
// and the New Relic application.
type Handler struct {
	server *server.Server
}

// NewHandler creates the base Handler.
func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// Handle wraps a typed handler function into an echo.HandlerFunc running
// the standard request pipeline:
//
//  1. bind the JSON body into a fresh Req and validate it
//  2. run the handler function
//  3. write the result as JSON with the given status
//
// newReq builds a fresh request struct per call; sharing one struct
// across requests would race under concurrent traffic.
//
// Validation and handler durations are attached to the New Relic
// transaction when one exists, separating "bad input" time from real
// processing time in traces.
func Handle[Req validation.Validatable, Res any](
	fn func(c echo.Context, req Req) (Res, error),
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		txn := newrelic.FromContext(c.Request().Context())

		req := newReq()

		validationStart := time.Now()
		if err := validation.BindAndValidate(c, req); err != nil {
			if txn != nil {
				txn.AddAttribute("validation.failed", true)
			}
			return err
		}
		if txn != nil {
			txn.AddAttribute("validation.duration_ms", time.Since(validationStart).Milliseconds())
		}

		handlerStart := time.Now()
		res, err := fn(c, req)
		if txn != nil {
			txn.AddAttribute("handler.duration_ms", time.Since(handlerStart).Milliseconds())
		}
		if err != nil {
			// Let the global error handler shape the response.
			return err
		}

		return c.JSON(status, res)
	}
}
