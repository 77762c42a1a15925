// Package shopapi is the HTTP client for the external store backend:
// products, sales, reviews, the precomputed analysis and the purchase
// endpoint. All responses are JSON except a purchase rejection, whose body
// is the plain-text reason.
package shopapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/phenrril/shopfront/internal/domain"
)

type Client struct {
	base       string
	httpClient *http.Client

	catalogTTL time.Duration
	mu         sync.Mutex
	catalog    domain.Catalog
	fetchedAt  time.Time
}

type Options struct {
	Timeout    time.Duration
	CatalogTTL time.Duration

	// Client-credentials grant for backends that want a bearer token.
	// Empty TokenURL means plain unauthenticated requests.
	TokenURL     string
	ClientID     string
	ClientSecret string
}

func New(baseURL string, opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	hc := &http.Client{Timeout: opts.Timeout}
	if opts.TokenURL != "" {
		cc := clientcredentials.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			TokenURL:     opts.TokenURL,
		}
		hc = cc.Client(context.Background())
		hc.Timeout = opts.Timeout
	}
	return &Client{
		base:       strings.TrimRight(baseURL, "/"),
		httpClient: hc,
		catalogTTL: opts.CatalogTTL,
	}
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("GET %s status %d: %s", path, res.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (*http.Response, error) {
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", path, err)
	}
	return res, nil
}

// Products returns the catalog, served from a short-lived cache so one page
// load does not hit the backend once per component.
func (c *Client) Products(ctx context.Context) (domain.Catalog, error) {
	c.mu.Lock()
	if c.catalog != nil && (c.catalogTTL <= 0 || time.Since(c.fetchedAt) < c.catalogTTL) {
		cached := c.catalog
		c.mu.Unlock()
		return cached, nil
	}
	c.mu.Unlock()

	var catalog domain.Catalog
	if err := c.getJSON(ctx, "/api/products", &catalog); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.catalog = catalog
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return catalog, nil
}

// InvalidateCatalog drops the cached product list. Called after a purchase
// so the next render sees fresh stock.
func (c *Client) InvalidateCatalog() {
	c.mu.Lock()
	c.catalog = nil
	c.mu.Unlock()
}

func (c *Client) Sales(ctx context.Context) ([]domain.SaleEvent, error) {
	var sales []domain.SaleEvent
	if err := c.getJSON(ctx, "/api/sales", &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

func (c *Client) Reviews(ctx context.Context) ([]domain.Review, error) {
	var reviews []domain.Review
	if err := c.getJSON(ctx, "/api/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) PostReview(ctx context.Context, r domain.Review) error {
	res, err := c.postJSON(ctx, "/api/reviews", r)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("POST /api/reviews status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *Client) Analysis(ctx context.Context) (domain.Analysis, error) {
	var a domain.Analysis
	if err := c.getJSON(ctx, "/api/dashboard/analysis", &a); err != nil {
		return domain.Analysis{}, err
	}
	return a, nil
}

// Purchase submits the cart entries as the request body. Any non-2xx
// response is a *domain.PurchaseError carrying the body text verbatim.
func (c *Client) Purchase(ctx context.Context, cart domain.Cart) error {
	res, err := c.postJSON(ctx, "/api/cart/purchase", cart)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return &domain.PurchaseError{Status: res.StatusCode, Reason: strings.TrimSpace(string(body))}
	}
	c.InvalidateCatalog()
	return nil
}
