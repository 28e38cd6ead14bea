package domain

// Product is an immutable catalog record. The cart only ever looks at ID,
// PriceCents and StockQuantity; everything else is descriptive payload for
// the storefront.
type Product struct {
	ID            string
	Name          string
	Species       string
	Description   string
	ImageURL      string
	Category      string
	PriceCents    int64
	StockQuantity int
	Rating        float64
	InStock       bool
}

// Filter narrows a catalog listing. Zero values mean "no constraint";
// MaxPriceCents of 0 means unbounded.
type Filter struct {
	Category      string
	MinPriceCents int64
	MaxPriceCents int64
	InStockOnly   bool
}

func (f Filter) Matches(p Product) bool {
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if p.PriceCents < f.MinPriceCents {
		return false
	}
	if f.MaxPriceCents > 0 && p.PriceCents > f.MaxPriceCents {
		return false
	}
	if f.InStockOnly && !p.InStock {
		return false
	}
	return true
}
