package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is a product identifier. The backing APIs are inconsistent about the
// type: some payloads carry ids as JSON strings, others as numbers. Every id
// is normalized to its string form at the decode boundary so comparisons
// never depend on the source representation.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*id = NormalizeID(raw)
	return nil
}

// NormalizeID coerces a string or numeric id into its canonical string form.
func NormalizeID(v any) ID {
	switch t := v.(type) {
	case ID:
		return t
	case string:
		return ID(strings.TrimSpace(t))
	case float64:
		return ID(strconv.FormatFloat(t, 'f', -1, 64))
	case int:
		return ID(strconv.Itoa(t))
	case int64:
		return ID(strconv.FormatInt(t, 10))
	case json.Number:
		return ID(t.String())
	case nil:
		return ""
	default:
		return ID(strings.TrimSpace(fmt.Sprint(t)))
	}
}

type Product struct {
	ID          ID       `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Sold        int      `json:"sold"`
	Image       string   `json:"image"`
	Thumbnails  []string `json:"thumbnails"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
}

func (p Product) SoldOut() bool { return p.Stock <= 0 }

// Catalog is the product list as served by the products endpoint. Lookup is
// by normalized id; a miss returns ErrNotFound.
type Catalog []Product

func (c Catalog) Find(id ID) (*Product, error) {
	id = NormalizeID(id)
	for i := range c {
		if NormalizeID(c[i].ID) == id {
			return &c[i], nil
		}
	}
	return nil, ErrNotFound
}

func (c Catalog) ByCategory() map[string][]Product {
	out := map[string][]Product{}
	for _, p := range c {
		out[p.Category] = append(out[p.Category], p)
	}
	return out
}

type Review struct {
	ProductID ID     `json:"productId"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment"`
}

// Sentiment is the per-product positive/negative review split computed by
// the external analysis endpoint.
type Sentiment struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
}

// Analysis is the precomputed review analysis payload, keyed by product id.
type Analysis struct {
	AvgScores  map[ID]float64   `json:"avgScores"`
	Sentiments map[ID]Sentiment `json:"sentiments"`
}
