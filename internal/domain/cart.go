package domain

// CartKey is the well-known storage key the cart lives under. The value is a
// JSON-encoded array of CartEntry.
const CartKey = "shoppingCart"

type CartEntry struct {
	ProductID ID  `json:"productId"`
	Quantity  int `json:"quantity"`
}

// Cart is the ordered sequence of entries. At most one entry exists per
// product id; order is insertion order.
type Cart []CartEntry

func (c Cart) Find(id ID) (int, bool) {
	id = NormalizeID(id)
	for i, e := range c {
		if NormalizeID(e.ProductID) == id {
			return i, true
		}
	}
	return -1, false
}

func (c Cart) Quantity(id ID) int {
	if i, ok := c.Find(id); ok {
		return c[i].Quantity
	}
	return 0
}

func (c Cart) Units() int {
	n := 0
	for _, e := range c {
		n += e.Quantity
	}
	return n
}

func (c Cart) Empty() bool { return len(c) == 0 }

// Clone returns an independent copy so callers can compute a candidate state
// without touching the loaded one.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	copy(out, c)
	return out
}
