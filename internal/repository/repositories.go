// Package repository handles all interactions with the database.
//
// It contains raw SQL queries and methods to fetch, persist,
// or update data, abstracting SQL logic away from the service layer.
package repository

import (
	"github.com/storebot/api/internal/server"
)

// Repositories is a container for all repository instances.
//
// Services receive this container and pick the repos they need, keeping
// the dependency injection shape in one place.
type Repositories struct {
	Products *ProductsRepository
	Carts    *CartsRepository
}

// NewRepositories constructs the repository container.
//
// Parameter:
// - s: application container (DB pool lives on s.DB, logger on s.Logger, etc.)
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Products: NewProductsRepository(s.DB.Pool),
		Carts:    NewCartsRepository(s.DB.Pool),
	}
}
