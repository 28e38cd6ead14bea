package application

import (
	"context"

	"github.com/crocshop/cart-service/internal/catalog/domain"
)

// Service is the catalog read surface. It also satisfies the cart's Catalog
// port, which is how product records cross into the cart engine.
type Service struct {
	repo ProductRepository
}

func NewService(repo ProductRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, f domain.Filter) ([]domain.Product, error) {
	if f.MaxPriceCents > 0 && f.MaxPriceCents < f.MinPriceCents {
		return nil, nil
	}
	return s.repo.List(ctx, f)
}
