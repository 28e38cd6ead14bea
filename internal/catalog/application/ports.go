package application

import (
	"context"
	"errors"

	"github.com/crocshop/cart-service/internal/catalog/domain"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	// Get returns the product for an id, or ErrProductNotFound.
	Get(ctx context.Context, id string) (domain.Product, error)

	// List returns products matching the filter, in catalog order.
	List(ctx context.Context, f domain.Filter) ([]domain.Product, error)
}
