// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/storebot/api/internal/handler"
	"github.com/storebot/api/internal/middleware"
	"github.com/storebot/api/internal/server"
)

// Setup builds the Echo instance: error handler, middleware chain, and
// routes.
//
// Middleware order matters:
//  1. New Relic first, so a transaction exists for everything below.
//  2. RequestID before the context enhancer, which reads it.
//  3. Context enhancer before anything that logs.
//  4. Rate limiting before the request logger, so rejected requests are
//     still logged with their 429 status.
func Setup(s *server.Server, mw *middleware.Middlewares, h *handler.Handlers) *echo.Echo {
	r := echo.New()

	r.HideBanner = true
	r.HidePort = true

	// All errors, from handlers or middleware, funnel through here.
	r.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	r.Use(mw.Tracing.NewRelicMiddleware())
	r.Use(middleware.RequestID())
	r.Use(mw.ContextEnhancer.EnhanceContext())
	r.Use(mw.Tracing.EnhanceTracing())
	r.Use(mw.Global.CORS())
	if mw.RateLimit.Enabled() {
		r.Use(mw.RateLimit.Limit())
	}
	r.Use(mw.Global.RequestLogger())
	r.Use(mw.Global.Recover())
	r.Use(mw.Global.Secure())

	registerAPIRoutes(r, h)
	registerSystemRoutes(r, h)

	return r
}
