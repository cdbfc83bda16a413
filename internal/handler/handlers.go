// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the..
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core..
// business logic.
package handler

import (
	"github.com/storebot/api/internal/server"
	"github.com/storebot/api/internal/service"
)

// Handlers is a container that groups all HTTP handlers.
//
// This keeps router setup clean: one object is passed around instead of
// many individual handlers.
type Handlers struct {
	Commands *CommandsHandler // Commands serves the single action-dispatch endpoint.
	Health   *HealthHandler   // Health serves service health endpoints (liveness/readiness).
	OpenAPI  *OpenAPIHandler  // OpenAPI serves API documentation (OpenAPI spec / swagger endpoints).
}

// NewHandlers constructs the handler container.
//
// Parameters:
// - s: application container (logger/config/etc.) often needed by handlers
// - services: business layer container
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Commands: NewCommandsHandler(s, services),
		Health:   NewHealthHandler(s),
		OpenAPI:  NewOpenAPIHandler(s),
	}
}
