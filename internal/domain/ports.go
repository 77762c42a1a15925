package domain

import (
	"context"
	"errors"
)

// ErrKeyMissing is returned by Storage.Get for an absent key. Cart loading
// treats it the same as a corrupt value: an empty cart.
var ErrKeyMissing = errors.New("storage: key missing")

// Storage is the client-local key/value capability the cart persists
// through. Implementations exist for signed cookies, flat files, Redis and
// Postgres; the cart logic never knows which one it got.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}

// StoreAPI is the read side of the external backend: everything the pages
// and the dashboard fetch.
type StoreAPI interface {
	Products(ctx context.Context) (Catalog, error)
	Sales(ctx context.Context) ([]SaleEvent, error)
	Reviews(ctx context.Context) ([]Review, error)
	Analysis(ctx context.Context) (Analysis, error)
}

// ReviewPoster submits a shopper review to the external reviews endpoint.
type ReviewPoster interface {
	PostReview(ctx context.Context, r Review) error
}

// PurchaseGateway submits a cart to the external purchase endpoint.
// A non-2xx response comes back as *PurchaseError.
type PurchaseGateway interface {
	Purchase(ctx context.Context, cart Cart) error
}

// ChartDataset is one series of a chart draw call.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Color string    `json:"backgroundColor,omitempty"`
	Stack string    `json:"stack,omitempty"`
}

// ChartSpec is the declarative draw call handed to a renderer.
type ChartSpec struct {
	Type     string         `json:"type"`
	Title    string         `json:"title"`
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
	Options  map[string]any `json:"options,omitempty"`
}

// ChartRenderer binds a spec to a named drawing surface. Replace must tear
// down whatever chart is already bound to the surface before drawing; a
// stale instance must never stay attached.
type ChartRenderer interface {
	Replace(surface string, spec ChartSpec) error
}
