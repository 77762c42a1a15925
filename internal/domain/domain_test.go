package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeID(t *testing.T) {
	cases := []struct {
		in   any
		want ID
	}{
		{"7", "7"},
		{" 7 ", "7"},
		{float64(7), "7"},
		{float64(7.0), "7"},
		{42, "42"},
		{nil, ""},
	}
	for _, c := range cases {
		if got := NormalizeID(c.in); got != c.want {
			t.Fatalf("NormalizeID(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestIDUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var ps []Product
	raw := `[{"id":7,"name":"a"},{"id":"7","name":"b"}]`
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if ps[0].ID != ps[1].ID {
		t.Fatalf("numeric and string ids must normalize equal: %q %q", ps[0].ID, ps[1].ID)
	}
}

func TestCartFindNormalizes(t *testing.T) {
	c := Cart{{ProductID: "7", Quantity: 2}}
	if q := c.Quantity(NormalizeID(float64(7))); q != 2 {
		t.Fatalf("quantity lookup across representations failed: %d", q)
	}
}

func TestSaleEventUnmarshal(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Time
	}{
		{`{"date":"2024-01-05T10:00:00Z","price":10,"quantity":2}`, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{`{"date":"2024-01-05T10:00Z","price":10,"quantity":2}`, time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)},
		{`{"date":"2024-01-05","price":10,"quantity":2}`, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		var s SaleEvent
		if err := json.Unmarshal([]byte(c.raw), &s); err != nil {
			t.Fatalf("unmarshal %s: %v", c.raw, err)
		}
		if !s.Date.Equal(c.want) {
			t.Fatalf("%s parsed as %v", c.raw, s.Date)
		}
	}

	var s SaleEvent
	if err := json.Unmarshal([]byte(`{"date":"not a date"}`), &s); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCatalogFind(t *testing.T) {
	c := Catalog{{ID: "1", Name: "Bear"}}
	if _, err := c.Find("2"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	p, err := c.Find("1")
	if err != nil || p.Name != "Bear" {
		t.Fatalf("find: %v %+v", err, p)
	}
}
