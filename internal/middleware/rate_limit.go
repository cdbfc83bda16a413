package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/newrelic/go-agent/v3/newrelic"
	"golang.org/x/time/rate"

	"github.com/storebot/api/internal/server"
)

// RateLimitMiddleware enforces a per-IP request rate on the command
// endpoint and records rejections as New Relic custom events.
//
// The endpoint fronts a chatbot, so a runaway bot loop can hammer it;
// the limiter keeps one misbehaving conversation from starving the rest.
type RateLimitMiddleware struct {
	server *server.Server
	nrApp  *newrelic.Application
}

// NewRateLimitMiddleware constructs RateLimitMiddleware.
func NewRateLimitMiddleware(s *server.Server, nrApp *newrelic.Application) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		server: s,
		nrApp:  nrApp,
	}
}

// Enabled reports whether a rate limit is configured.
func (r *RateLimitMiddleware) Enabled() bool {
	return r.server.Config.Server.RateLimit > 0
}

// Limit returns Echo's rate limiter middleware backed by an in-memory
// per-IP token bucket.
//
// The configured rate is requests per second; bursts up to three times
// the rate are tolerated so a quick action sequence (list, details,
// add) is not rejected.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	limit := rate.Limit(r.server.Config.Server.RateLimit)
	burst := int(r.server.Config.Server.RateLimit * 3)
	if burst < 1 {
		burst = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  limit,
			Burst: burst,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			r.recordRateLimitHit(c.Path())
			return echo.ErrTooManyRequests
		},
	})
}

// recordRateLimitHit emits a RateLimitHit custom event when New Relic
// is configured.
func (r *RateLimitMiddleware) recordRateLimitHit(endpoint string) {
	if r.nrApp != nil {
		r.nrApp.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"endpoint": endpoint,
		})
	}
}
