package usecase

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/phenrril/shopfront/internal/adapters/storage/memory"
	"github.com/phenrril/shopfront/internal/domain"
)

func newCart(t *testing.T) (*CartUC, *memory.Store) {
	t.Helper()
	store := memory.New()
	return &CartUC{Store: store}, store
}

func stored(t *testing.T, store *memory.Store) []byte {
	t.Helper()
	b, err := store.Get(context.Background(), domain.CartKey)
	if err != nil && !errors.Is(err, domain.ErrKeyMissing) {
		t.Fatalf("get: %v", err)
	}
	return b
}

func TestCartAddMerges(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCart(t)

	if _, err := uc.Add(ctx, "7", 2, 10); err != nil {
		t.Fatalf("add: %v", err)
	}
	cart, err := uc.Add(ctx, "7", 3, 10)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(cart) != 1 || cart[0].Quantity != 5 {
		t.Fatalf("expected one merged entry of 5, got %+v", cart)
	}

	loaded := uc.Load(ctx)
	if len(loaded) != 1 || loaded[0].Quantity != 5 {
		t.Fatalf("persisted cart wrong: %+v", loaded)
	}
}

func TestCartAddStockBoundRejectsWhole(t *testing.T) {
	ctx := context.Background()
	uc, store := newCart(t)

	if _, err := uc.Add(ctx, "7", 4, 5); err != nil {
		t.Fatalf("seed: %v", err)
	}
	before := stored(t, store)

	_, err := uc.Add(ctx, "7", 2, 5)
	var se *domain.StockExceededError
	if !errors.As(err, &se) {
		t.Fatalf("expected StockExceededError, got %v", err)
	}
	if se.Current != 4 || se.Remaining != 1 {
		t.Fatalf("error payload wrong: %+v", se)
	}

	after := stored(t, store)
	if !bytes.Equal(before, after) {
		t.Fatalf("rejected add mutated storage: %s -> %s", before, after)
	}
}

func TestCartAddInvalidQuantity(t *testing.T) {
	uc, store := newCart(t)
	if _, err := uc.Add(context.Background(), "7", 0, 10); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if stored(t, store) != nil {
		t.Fatal("invalid add must not persist")
	}
}

func TestCartRemove(t *testing.T) {
	ctx := context.Background()
	uc, _ := newCart(t)

	for _, id := range []domain.ID{"a", "b", "c"} {
		if _, err := uc.Add(ctx, id, 1, 10); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	t.Run("keeps relative order", func(t *testing.T) {
		cart, err := uc.Remove(ctx, "b")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if len(cart) != 2 || cart[0].ProductID != "a" || cart[1].ProductID != "c" {
			t.Fatalf("order broken: %+v", cart)
		}
	})

	t.Run("absent id is a no-op", func(t *testing.T) {
		cart, err := uc.Remove(ctx, "missing")
		if err != nil {
			t.Fatalf("remove: %v", err)
		}
		if len(cart) != 2 {
			t.Fatalf("no-op remove changed the cart: %+v", cart)
		}
	})
}

func TestCartIDNormalization(t *testing.T) {
	ctx := context.Background()
	uc, store := newCart(t)

	// Carts written by older clients carry numeric ids.
	err := store.Set(ctx, domain.CartKey, []byte(`[{"productId":7,"quantity":2}]`))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	cart := uc.Load(ctx)
	if cart.Quantity("7") != 2 {
		t.Fatalf("numeric id should compare equal to string id: %+v", cart)
	}

	if cart, err = uc.Remove(ctx, "7"); err != nil || len(cart) != 0 {
		t.Fatalf("remove by string id failed: %v %+v", err, cart)
	}
}

func TestCartLoadFailsSoft(t *testing.T) {
	ctx := context.Background()
	uc, store := newCart(t)

	t.Run("absent key", func(t *testing.T) {
		if cart := uc.Load(ctx); len(cart) != 0 {
			t.Fatalf("expected empty cart, got %+v", cart)
		}
	})

	t.Run("corrupt value", func(t *testing.T) {
		if err := store.Set(ctx, domain.CartKey, []byte("{not json")); err != nil {
			t.Fatalf("seed: %v", err)
		}
		if cart := uc.Load(ctx); len(cart) != 0 {
			t.Fatalf("expected empty cart, got %+v", cart)
		}
	})

	t.Run("drops bad entries", func(t *testing.T) {
		raw := []byte(`[{"productId":"a","quantity":2},{"productId":"","quantity":3},{"productId":"b","quantity":-1}]`)
		if err := store.Set(ctx, domain.CartKey, raw); err != nil {
			t.Fatalf("seed: %v", err)
		}
		cart := uc.Load(ctx)
		if len(cart) != 1 || cart[0].ProductID != "a" {
			t.Fatalf("sanitize wrong: %+v", cart)
		}
	})
}

func TestCartClear(t *testing.T) {
	ctx := context.Background()
	uc, store := newCart(t)

	if _, err := uc.Add(ctx, "7", 1, 5); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := uc.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if stored(t, store) != nil {
		t.Fatal("clear left a stored value")
	}
	if cart := uc.Load(ctx); !cart.Empty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}
