package domain

import catalog "github.com/crocshop/cart-service/internal/catalog/domain"

// Action is the closed set of cart transitions. Reduce treats anything
// outside these four variants as a no-op.
type Action interface {
	isAction()
}

// AddItem puts one unit of the product in the cart, merging into an
// existing line by product id.
type AddItem struct {
	Product catalog.Product
}

// RemoveItem drops the line for the given product id.
type RemoveItem struct {
	ProductID string
}

// UpdateQuantity sets a line's quantity verbatim. Quantities at or below
// zero degrade to RemoveItem.
type UpdateQuantity struct {
	ProductID string
	Quantity  int
}

// Clear empties the cart.
type Clear struct{}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (Clear) isAction()          {}
