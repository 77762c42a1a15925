package httpserver

import "github.com/phenrril/shopfront/internal/domain"

type CartLine struct {
	Product   domain.Product
	Quantity  int
	LineTotal float64
}

// CartViewData is what the cart page renders: the stored entries joined
// against the catalog. Entries whose product has left the catalog are
// skipped silently; a stale cart reference is tolerated, not an error.
// Empty reflects the stored cart, so the empty-state message and the total
// heading are mutually exclusive.
type CartViewData struct {
	Lines []CartLine
	Total float64
	Empty bool
}

func BuildCartView(cart domain.Cart, catalog domain.Catalog) CartViewData {
	data := CartViewData{Empty: cart.Empty()}
	for _, e := range cart {
		p, err := catalog.Find(domain.NormalizeID(e.ProductID))
		if err != nil {
			continue
		}
		line := CartLine{Product: *p, Quantity: e.Quantity, LineTotal: p.Price * float64(e.Quantity)}
		data.Lines = append(data.Lines, line)
		data.Total += line.LineTotal
	}
	return data
}
