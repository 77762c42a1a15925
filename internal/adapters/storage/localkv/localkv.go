// Package localkv keeps each key in a flat file under a base directory.
package localkv

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/phenrril/shopfront/internal/domain"
)

type Store struct{ dir string }

func New(dir string) *Store {
	_ = os.MkdirAll(dir, 0755)
	return &Store{dir: dir}
}

func (s *Store) path(key string) string {
	// Keys may carry a session prefix like "sid/shoppingCart"; flatten the
	// separator so everything stays inside dir.
	name := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(key)
	return filepath.Join(s.dir, name+".json")
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return nil, domain.ErrKeyMissing
	}
	return b, err
}

// Set writes via a temp file plus rename so a reader never sees a torn
// value.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	p := s.path(key)
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *Store) Remove(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
