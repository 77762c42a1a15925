package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/phenrril/shopfront/internal/adapters/storage/memory"
	"github.com/phenrril/shopfront/internal/domain"
)

type fakeGateway struct {
	err   error
	calls int
	got   domain.Cart
}

func (g *fakeGateway) Purchase(_ context.Context, cart domain.Cart) error {
	g.calls++
	g.got = cart
	return g.err
}

func seedCart(t *testing.T) (*CartUC, *memory.Store) {
	t.Helper()
	store := memory.New()
	uc := &CartUC{Store: store}
	if _, err := uc.Add(context.Background(), "7", 2, 10); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return uc, store
}

func TestCheckoutSuccess(t *testing.T) {
	ctx := context.Background()
	cart, _ := seedCart(t)
	gw := &fakeGateway{}
	uc := &CheckoutUC{Gateway: gw}

	if _, err := uc.Begin(ctx, cart); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if uc.State() != StateConfirming {
		t.Fatalf("expected confirming, got %s", uc.State())
	}

	if err := uc.Confirm(ctx, cart); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if uc.State() != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", uc.State())
	}
	if gw.calls != 1 || len(gw.got) != 1 || gw.got[0].ProductID != "7" {
		t.Fatalf("gateway got %+v in %d calls", gw.got, gw.calls)
	}
	if !cart.Load(ctx).Empty() {
		t.Fatal("successful checkout must clear the cart")
	}
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	cart, store := seedCart(t)
	before, _ := store.Get(ctx, domain.CartKey)

	gw := &fakeGateway{err: &domain.PurchaseError{Status: 409, Reason: "item 7 went out of stock"}}
	uc := &CheckoutUC{Gateway: gw}

	if _, err := uc.Begin(ctx, cart); err != nil {
		t.Fatalf("begin: %v", err)
	}
	if err := uc.Confirm(ctx, cart); err == nil {
		t.Fatal("expected confirm to fail")
	}

	if uc.State() != StateFailed {
		t.Fatalf("expected failed, got %s", uc.State())
	}
	if uc.FailureReason() != "item 7 went out of stock" {
		t.Fatalf("reason must be the response body verbatim, got %q", uc.FailureReason())
	}

	after, _ := store.Get(ctx, domain.CartKey)
	if !bytes.Equal(before, after) {
		t.Fatalf("failed checkout mutated the cart: %s -> %s", before, after)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	cart := &CartUC{Store: memory.New()}
	uc := &CheckoutUC{Gateway: &fakeGateway{}}

	if _, err := uc.Begin(ctx, cart); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if uc.State() != StateIdle {
		t.Fatalf("expected idle, got %s", uc.State())
	}
}

func TestCheckoutRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	cart, _ := seedCart(t)
	gw := &fakeGateway{}
	uc := &CheckoutUC{Gateway: gw}

	if err := uc.Confirm(ctx, cart); !errors.Is(err, ErrNotConfirming) {
		t.Fatalf("expected ErrNotConfirming, got %v", err)
	}
	if gw.calls != 0 {
		t.Fatal("unconfirmed checkout must not reach the gateway")
	}
}

func TestCheckoutCancel(t *testing.T) {
	ctx := context.Background()
	cart, _ := seedCart(t)
	gw := &fakeGateway{}
	uc := &CheckoutUC{Gateway: gw}

	if _, err := uc.Begin(ctx, cart); err != nil {
		t.Fatalf("begin: %v", err)
	}
	uc.Cancel()

	if uc.State() != StateIdle {
		t.Fatalf("expected idle, got %s", uc.State())
	}
	if gw.calls != 0 {
		t.Fatal("cancel must not reach the gateway")
	}
	if cart.Load(ctx).Empty() {
		t.Fatal("cancel must not touch the cart")
	}
}
