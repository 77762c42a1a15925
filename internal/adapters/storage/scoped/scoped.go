// Package scoped prefixes every key with a session id so server-side
// backends can hold one cart per visitor under the same well-known key.
package scoped

import (
	"context"

	"github.com/phenrril/shopfront/internal/domain"
)

type store struct {
	inner  domain.Storage
	prefix string
}

func Wrap(inner domain.Storage, sessionID string) domain.Storage {
	return &store{inner: inner, prefix: sessionID + "/"}
}

func (s *store) Get(ctx context.Context, key string) ([]byte, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

func (s *store) Set(ctx context.Context, key string, value []byte) error {
	return s.inner.Set(ctx, s.prefix+key, value)
}

func (s *store) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, s.prefix+key)
}
