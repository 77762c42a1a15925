// Package cookiekv keeps values on the client itself, inside an HMAC-signed
// cookie. This is the storefront's default cart store: the server holds
// nothing, the browser carries the cart between requests.
package cookiekv

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/phenrril/shopfront/internal/domain"
)

const maxAge = 60 * 60 * 24 * 7

// Store is bound to one request/response pair; build a fresh one per
// request. A value written during the request is visible to later reads in
// the same request.
type Store struct {
	w      http.ResponseWriter
	r      *http.Request
	secret []byte

	written map[string][]byte
}

func New(w http.ResponseWriter, r *http.Request, secret []byte) *Store {
	return &Store{w: w, r: r, secret: secret, written: map[string][]byte{}}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := s.written[key]; ok {
		if v == nil {
			return nil, domain.ErrKeyMissing
		}
		return v, nil
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return nil, domain.ErrKeyMissing
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil, domain.ErrKeyMissing
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, s.secret)
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		// A tampered or stale-key cookie reads as absent, not as an error.
		return nil, domain.ErrKeyMissing
	}
	return payload, nil
}

func (s *Store) Set(_ context.Context, key string, value []byte) error {
	h := hmac.New(sha256.New, s.secret)
	h.Write(value)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(value)
	http.SetCookie(s.w, &http.Cookie{Name: key, Value: val, Path: "/", MaxAge: maxAge, HttpOnly: true})
	s.written[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	http.SetCookie(s.w, &http.Cookie{Name: key, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	s.written[key] = nil
	return nil
}
