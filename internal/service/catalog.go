package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/storebot/api/internal/errs"
	"github.com/storebot/api/internal/models"
)

// CatalogService answers the read-only product actions.
type CatalogService struct {
	products ProductStore
	logger   *zerolog.Logger
}

// NewCatalogService wires a CatalogService to a product store.
func NewCatalogService(products ProductStore, logger *zerolog.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		logger:   logger,
	}
}

// ListProducts returns every available product, optionally filtered by a
// free-text query.
//
// The query is lowercased and matched as a substring against name and
// description. An empty query lists the whole available catalog.
func (s *CatalogService) ListProducts(ctx context.Context, query string) (*models.ListProductsResponse, error) {
	pattern := ""
	if q := strings.ToLower(query); q != "" {
		pattern = "%" + q + "%"
	}

	products, err := s.products.ListAvailable(ctx, pattern)
	if err != nil {
		return nil, err
	}

	// An empty catalog serializes as [], not null.
	if products == nil {
		products = []models.ProductSummary{}
	}

	return &models.ListProductsResponse{
		Count:    len(products),
		Products: products,
	}, nil
}

// GetProductDetails returns the full row for one product code.
//
// The code is matched in both its raw and zero-padded forms. Unknown
// codes yield a not-found error rather than an empty response.
func (s *CatalogService) GetProductDetails(ctx context.Context, code string) (*models.ProductDetailResponse, error) {
	raw, padded := CodeCandidates(code)

	product, err := s.products.FindByCode(ctx, raw, padded)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errs.NewNotFoundError("Product not found", nil)
	}

	return &models.ProductDetailResponse{Product: *product}, nil
}
