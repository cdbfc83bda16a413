// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/storebot/api/internal/lib/job"
	"github.com/storebot/api/internal/repository"
	"github.com/storebot/api/internal/server"
)

type Services struct {
	Catalog *CatalogService
	Cart    *CartService
	Job     *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Catalog: NewCatalogService(repos.Products, s.Logger),
		Cart:    NewCartService(repos.Products, repos.Carts, s.Logger),
		Job:     s.Job,
	}, nil
}
