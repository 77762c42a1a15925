package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a catalog miss. Rendering treats it as a skip, never a
// failure: a cart entry may outlive its product.
var ErrNotFound = errors.New("not found")

// ErrEmptyCart rejects a checkout started with nothing to buy.
var ErrEmptyCart = errors.New("cart is empty")

// StockExceededError rejects a cart addition that would push the stored
// quantity past the product's stock. Current and Remaining feed the
// user-facing message; the cart is left exactly as it was.
type StockExceededError struct {
	ProductID ID
	Current   int
	Remaining int
}

func (e *StockExceededError) Error() string {
	if e.Remaining <= 0 {
		return fmt.Sprintf("product %s: no more units can be added", e.ProductID)
	}
	return fmt.Sprintf("product %s: %d in cart, only %d more can be added", e.ProductID, e.Current, e.Remaining)
}

// PurchaseError carries a purchase rejection. Reason is the response body
// verbatim, shown to the user as-is.
type PurchaseError struct {
	Status int
	Reason string
}

func (e *PurchaseError) Error() string {
	return fmt.Sprintf("purchase rejected (status %d): %s", e.Status, e.Reason)
}
