package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SaleEvent is one line of the sales feed. Date is the full event timestamp;
// aggregation truncates it to the UTC calendar day.
type SaleEvent struct {
	Date     time.Time `json:"date"`
	Price    float64   `json:"price"`
	Quantity int       `json:"quantity"`
}

func (s SaleEvent) Amount() float64 { return s.Price * float64(s.Quantity) }

// The feed is loose about timestamp precision: full RFC3339, minute-only
// stamps like 2024-01-05T10:00Z, and bare dates all occur.
var saleDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
	"2006-01-02",
}

func (s *SaleEvent) UnmarshalJSON(b []byte) error {
	var raw struct {
		Date     string  `json:"date"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	s.Price = raw.Price
	s.Quantity = raw.Quantity

	v := strings.TrimSpace(raw.Date)
	for _, layout := range saleDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			s.Date = t
			return nil
		}
	}
	return fmt.Errorf("sale event: bad date %q", raw.Date)
}
