package domain

import (
	"fmt"

	catalog "github.com/crocshop/cart-service/internal/catalog/domain"
)

// CartLine is one product's entry in the cart. The product is the snapshot
// taken when the line was first added; later adds only bump the quantity.
type CartLine struct {
	Product  catalog.Product
	Quantity int
}

func (l CartLine) LineTotalCents() int64 {
	return l.Product.PriceCents * int64(l.Quantity)
}

// CartState is one immutable cart snapshot. TotalCents and ItemCount are
// derived from Items and recomputed in full on every transition. The zero
// value is the empty cart.
type CartState struct {
	Items      []CartLine
	TotalCents int64
	ItemCount  int
}

// Clone returns a snapshot whose Items slice is independent of the
// receiver's backing array, so holders can keep or modify it without
// reaching whatever produced it.
func (s CartState) Clone() CartState {
	if s.Items == nil {
		return s
	}
	items := make([]CartLine, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

// Line returns the line for a product id, if present.
func (s CartState) Line(productID string) (CartLine, bool) {
	for _, l := range s.Items {
		if l.Product.ID == productID {
			return l, true
		}
	}
	return CartLine{}, false
}

// Reduce applies one action and returns a fresh snapshot. It never mutates
// the input state: the returned Items slice is newly allocated.
func Reduce(state CartState, action Action) CartState {
	switch a := action.(type) {
	case AddItem:
		items := make([]CartLine, 0, len(state.Items)+1)
		merged := false
		for _, l := range state.Items {
			if l.Product.ID == a.Product.ID {
				l.Quantity++
				merged = true
			}
			items = append(items, l)
		}
		if !merged {
			items = append(items, CartLine{Product: a.Product, Quantity: 1})
		}
		return derive(items)

	case RemoveItem:
		items := make([]CartLine, 0, len(state.Items))
		for _, l := range state.Items {
			if l.Product.ID != a.ProductID {
				items = append(items, l)
			}
		}
		return derive(items)

	case UpdateQuantity:
		if a.Quantity <= 0 {
			return Reduce(state, RemoveItem{ProductID: a.ProductID})
		}
		items := make([]CartLine, 0, len(state.Items))
		for _, l := range state.Items {
			if l.Product.ID == a.ProductID {
				l.Quantity = a.Quantity
			}
			items = append(items, l)
		}
		return derive(items)

	case Clear:
		return CartState{}

	default:
		return derive(state.Items)
	}
}

// derive rebuilds the aggregates by summing over the whole line list, never
// by patching the previous values. Keeping this the single source of both
// aggregates means they cannot drift from Items.
func derive(items []CartLine) CartState {
	var total int64
	var count int
	for _, l := range items {
		total += l.LineTotalCents()
		count += l.Quantity
	}
	return CartState{Items: items, TotalCents: total, ItemCount: count}
}

// Validate checks the structural invariants every reachable snapshot must
// satisfy. A violation is a programming defect, not a runtime condition;
// this exists for tests.
func (s CartState) Validate() error {
	seen := make(map[string]struct{}, len(s.Items))
	var total int64
	var count int
	for _, l := range s.Items {
		if l.Quantity < 1 {
			return fmt.Errorf("line %q has quantity %d", l.Product.ID, l.Quantity)
		}
		if _, dup := seen[l.Product.ID]; dup {
			return fmt.Errorf("duplicate line for product %q", l.Product.ID)
		}
		seen[l.Product.ID] = struct{}{}
		total += l.LineTotalCents()
		count += l.Quantity
	}
	if s.TotalCents != total {
		return fmt.Errorf("total is %d, lines sum to %d", s.TotalCents, total)
	}
	if s.ItemCount != count {
		return fmt.Errorf("item count is %d, lines sum to %d", s.ItemCount, count)
	}
	return nil
}
