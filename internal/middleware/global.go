package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/errs"
	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/sqlerr"
)

// GlobalMiddlewares groups global middleware and the global error handler.
//
// A struct so middleware functions can access shared app dependencies from
// *server.Server, especially config and observability/logging.
type GlobalMiddlewares struct {
	server *server.Server
}

// NewGlobalMiddlewares constructs the middleware bundle.
func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

// CORS returns Echo's CORS middleware configured by server config.
//
// The command endpoint is called by browser-based chat widgets, so the
// allowed origins list has to cover them.
func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
	})
}

// RequestLogger returns Echo's request logger middleware with a custom
// LogValuesFunc.
//
// Why custom?
//   - Structured logs via zerolog
//   - Correlation fields (request_id)
//   - Correct status codes even when the handler returns an error and the
//     global error handler sets the final response later.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		// LogValuesFunc is called at the end of request handling.
		// v contains measured request metadata: latency, status, error, etc.
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			statusCode := v.Status

			// When a handler returns an error, Echo may not have written the
			// final status yet; the GlobalErrorHandler decides it later. So
			// if v.Error != nil, derive the status from the error type to
			// avoid logging status=200 for an error request.
			// Reference: https://github.com/labstack/echo/issues/2310#issuecomment-1288196898
			if v.Error != nil {
				var httpErr *errs.HTTPError
				var echoErr *echo.HTTPError

				if errors.As(v.Error, &httpErr) {
					statusCode = httpErr.Status
				} else if errors.As(v.Error, &echoErr) {
					statusCode = echoErr.Code
				}
			}

			// Pull the enhanced request logger from context.
			// ContextEnhancer middleware should have stored this already.
			logger := GetLogger(c)

			// Pick log level based on status:
			// - 5xx = server fault -> Error
			// - 4xx = client fault -> Warn
			// - otherwise -> Info
			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error)
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			// Correlation: request id (if RequestID middleware ran).
			if requestID := GetRequestID(c); requestID != "" {
				e = e.Str("request_id", requestID)
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

// Recover returns Echo's panic recovery middleware.
//
// Panics become 500 responses instead of crashing the process.
func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

// Secure returns Echo's secure headers middleware.
func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the final error funnel for the entire HTTP server.
//
// Every error ends up here, regardless of where it happened, and is
// translated into the flat `{"error": ...}` envelope the command clients
// expect. The request-scoped logger records the original error.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	// Keep the original error for logging. `err` may be replaced with a
	// friendlier/sanitized error for the client, but logs keep the real
	// underlying error for debugging.
	originalErr := err

	// If error is not already our custom HTTP error, classify/convert it.
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {

		// Echo has its own HTTPError type for routing-level failures:
		// unknown paths (404) and wrong methods on the command route (405).
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			switch echoErr.Code {
			case http.StatusNotFound:
				err = errs.NewNotFoundError("Route not found", nil)
			case http.StatusMethodNotAllowed:
				err = errs.NewMethodNotAllowedError()
			}

		} else {
			// Otherwise treat it as a likely driver/database/unknown error.
			// sqlerr.HandleError converts pgx/pgconn errors into application
			// HTTP errors, e.g. foreign key violation -> 400 with a friendly
			// message.
			err = sqlerr.HandleError(err)
		}
	}

	// Map whichever error we ended up with into the response.
	var echoErr *echo.HTTPError
	var status int
	var code string
	response := err

	switch {
	case errors.As(err, &httpErr):
		// Our custom error already knows its envelope.
		status = httpErr.Status
		code = httpErr.Code
		response = httpErr

	case errors.As(err, &echoErr):
		// Convert Echo's error into our schema.
		status = echoErr.Code
		code = errs.MakeUpperCaseWithUnderscores(http.StatusText(status))

		// Echo error message can be a string or any type; normalize it.
		message := http.StatusText(echoErr.Code)
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		}
		response = &errs.HTTPError{Code: code, Message: message, Status: status}

	default:
		// Absolute fallback: safe 500.
		internal := errs.NewInternalServerError()
		status = internal.Status
		code = internal.Code
		response = internal
	}

	// Log the original error for debugging, with the request-scoped logger
	// (request_id/trace already included by other middleware).
	logger := *GetLogger(c)

	logger.Error().Stack().
		Err(originalErr).
		Int("status", status).
		Str("error_code", code).
		Msg("request failed")

	// Only write response if it hasn't already been written.
	if !c.Response().Committed {
		_ = c.JSON(status, response)
	}
}
