package usecase

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/phenrril/shopfront/internal/domain"
)

// ErrInvalidQuantity rejects an add of less than one unit.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// CartUC owns the persisted cart. Every mutation computes the full new
// sequence first and persists it with a single Set, so a failure mid-way
// leaves the stored cart exactly as it was.
type CartUC struct {
	Store domain.Storage
}

// Load reads the stored cart. An absent key, an unreadable value or corrupt
// JSON all come back as an empty cart; persistence problems never surface
// to the shopper.
func (uc *CartUC) Load(ctx context.Context) domain.Cart {
	raw, err := uc.Store.Get(ctx, domain.CartKey)
	if err != nil {
		return domain.Cart{}
	}
	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return domain.Cart{}
	}
	return sanitize(cart)
}

// sanitize drops entries a corrupt or hand-edited store could carry:
// blank ids, non-positive quantities, duplicate ids (first wins, quantities
// merged).
func sanitize(cart domain.Cart) domain.Cart {
	out := make(domain.Cart, 0, len(cart))
	for _, e := range cart {
		id := domain.NormalizeID(e.ProductID)
		if id == "" || e.Quantity < 1 {
			continue
		}
		if i, ok := out.Find(id); ok {
			out[i].Quantity += e.Quantity
			continue
		}
		out = append(out, domain.CartEntry{ProductID: id, Quantity: e.Quantity})
	}
	return out
}

// Add merges qty units of a product into the cart, bounded by stockLimit.
// An add that would push the stored quantity past the limit is rejected
// whole: nothing is persisted and the error reports how many units are
// still addable.
func (uc *CartUC) Add(ctx context.Context, productID domain.ID, qty, stockLimit int) (domain.Cart, error) {
	if qty < 1 {
		return nil, ErrInvalidQuantity
	}
	id := domain.NormalizeID(productID)
	cart := uc.Load(ctx)

	current := cart.Quantity(id)
	if current+qty > stockLimit {
		return nil, &domain.StockExceededError{
			ProductID: id,
			Current:   current,
			Remaining: stockLimit - current,
		}
	}

	next := cart.Clone()
	if i, ok := next.Find(id); ok {
		next[i].Quantity += qty
	} else {
		next = append(next, domain.CartEntry{ProductID: id, Quantity: qty})
	}
	if err := uc.persist(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Remove drops the entry for the given id. Removing an id that is not in
// the cart is a no-op, not an error.
func (uc *CartUC) Remove(ctx context.Context, productID domain.ID) (domain.Cart, error) {
	id := domain.NormalizeID(productID)
	cart := uc.Load(ctx)
	i, ok := cart.Find(id)
	if !ok {
		return cart, nil
	}
	next := make(domain.Cart, 0, len(cart)-1)
	next = append(next, cart[:i]...)
	next = append(next, cart[i+1:]...)
	if err := uc.persist(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear empties the cart. Called after a successful checkout.
func (uc *CartUC) Clear(ctx context.Context) error {
	return uc.Store.Remove(ctx, domain.CartKey)
}

func (uc *CartUC) persist(ctx context.Context, cart domain.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return uc.Store.Set(ctx, domain.CartKey, b)
}
