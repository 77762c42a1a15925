package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/phenrril/shopfront/internal/domain"
)

type CheckoutState string

const (
	StateIdle       CheckoutState = "idle"
	StateConfirming CheckoutState = "confirming"
	StateSubmitting CheckoutState = "submitting"
	StateSucceeded  CheckoutState = "succeeded"
	StateFailed     CheckoutState = "failed"
)

// ErrNotConfirming rejects a confirmation that was never begun; the
// purchase endpoint must only be hit after an explicit confirm step.
var ErrNotConfirming = errors.New("checkout: nothing to confirm")

// CheckoutUC drives one shopper's checkout:
// Idle -> Confirming -> Submitting -> Succeeded | Failed.
// Failure is terminal per attempt and returns to Idle on the next Begin;
// there is no automatic retry, and a failed submit never touches the cart.
type CheckoutUC struct {
	Gateway domain.PurchaseGateway

	mu     sync.Mutex
	state  CheckoutState
	reason string
}

func (uc *CheckoutUC) State() CheckoutState {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.state == "" {
		return StateIdle
	}
	return uc.state
}

// FailureReason is the purchase response body, verbatim, after a failed
// attempt.
func (uc *CheckoutUC) FailureReason() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.reason
}

// Begin moves to Confirming and returns the cart the shopper is about to
// confirm. An empty cart keeps the machine in Idle.
func (uc *CheckoutUC) Begin(ctx context.Context, cart *CartUC) (domain.Cart, error) {
	c := cart.Load(ctx)
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if c.Empty() {
		uc.state = StateIdle
		return nil, domain.ErrEmptyCart
	}
	uc.state = StateConfirming
	uc.reason = ""
	return c, nil
}

// Cancel abandons the confirmation. No network call is made.
func (uc *CheckoutUC) Cancel() {
	uc.mu.Lock()
	uc.state = StateIdle
	uc.reason = ""
	uc.mu.Unlock()
}

// Confirm serializes the cart to the purchase endpoint. On success the cart
// is cleared; on failure it is left untouched and the response body is kept
// as the user-facing reason.
func (uc *CheckoutUC) Confirm(ctx context.Context, cart *CartUC) error {
	uc.mu.Lock()
	if uc.state != StateConfirming {
		uc.mu.Unlock()
		return ErrNotConfirming
	}
	uc.state = StateSubmitting
	uc.mu.Unlock()

	c := cart.Load(ctx)
	if err := uc.Gateway.Purchase(ctx, c); err != nil {
		uc.mu.Lock()
		uc.state = StateFailed
		var pe *domain.PurchaseError
		if errors.As(err, &pe) {
			uc.reason = pe.Reason
		} else {
			uc.reason = err.Error()
		}
		uc.mu.Unlock()
		return err
	}

	// The purchase went through; a failed Clear must not read as a failed
	// checkout.
	_ = cart.Clear(ctx)
	uc.mu.Lock()
	uc.state = StateSucceeded
	uc.mu.Unlock()
	return nil
}
