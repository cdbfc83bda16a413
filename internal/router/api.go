package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/storebot/api/internal/handler"
)

// registerAPIRoutes registers the business routes.
//
// The whole API is one POST endpoint at the root: clients send an
// `{action, params}` envelope and the commands handler dispatches on the
// action. Any other method on "/" falls through to Echo's 405, which the
// global error handler turns into the "Method not allowed" envelope.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/", handler.Handle(
		h.Commands.Dispatch,
		http.StatusOK,
		func() *handler.CommandRequest { return &handler.CommandRequest{} },
	))
}
