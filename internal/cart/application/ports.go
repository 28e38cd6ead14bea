package application

import (
	"context"

	cartdomain "github.com/crocshop/cart-service/internal/cart/domain"
	catalogdomain "github.com/crocshop/cart-service/internal/catalog/domain"
)

// Catalog resolves product ids to immutable product records. Implementations
// return catalog application's ErrProductNotFound for unknown ids.
type Catalog interface {
	Product(ctx context.Context, id string) (catalogdomain.Product, error)
}

// Notifier delivers the user-facing acknowledgment for a mutation that
// already succeeded. Failures are logged by callers, never surfaced to the
// user flow.
type Notifier interface {
	Notify(ctx context.Context, n cartdomain.Notification) error
}
