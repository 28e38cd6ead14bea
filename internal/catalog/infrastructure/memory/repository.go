package memory

import (
	"context"
	"sync"

	"github.com/crocshop/cart-service/internal/catalog/application"
	"github.com/crocshop/cart-service/internal/catalog/domain"
)

// Repository is an in-memory catalog for tests and standalone runs. Listing
// preserves seed order.
type Repository struct {
	mu       sync.RWMutex
	products []domain.Product
	byID     map[string]domain.Product
}

func NewRepository(seed []domain.Product) *Repository {
	r := &Repository{byID: make(map[string]domain.Product, len(seed))}
	for _, p := range seed {
		if _, dup := r.byID[p.ID]; dup {
			continue
		}
		r.products = append(r.products, p)
		r.byID[p.ID] = p
	}
	return r
}

func (r *Repository) Get(_ context.Context, id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byID[id]
	if !ok {
		return domain.Product{}, application.ErrProductNotFound
	}
	return p, nil
}

func (r *Repository) List(_ context.Context, f domain.Filter) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Product
	for _, p := range r.products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
