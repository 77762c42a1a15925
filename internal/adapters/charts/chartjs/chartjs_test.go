package chartjs

import (
	"strings"
	"testing"

	"github.com/phenrril/shopfront/internal/domain"
)

func spec(title string) domain.ChartSpec {
	return domain.ChartSpec{
		Type:   "bar",
		Title:  title,
		Labels: []string{"a", "b"},
		Datasets: []domain.ChartDataset{
			{Label: "Stock", Data: []float64{1, 2}},
		},
	}
}

func TestReplaceRebindsSurface(t *testing.T) {
	r := New()
	if err := r.Replace("stockSalesChart", spec("first")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := r.Replace("dailySalesChart", spec("daily")); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := r.Replace("stockSalesChart", spec("second")); err != nil {
		t.Fatalf("replace: %v", err)
	}

	bindings, err := r.Bindings()
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	if len(bindings) != 2 {
		t.Fatalf("a replaced surface must not duplicate, got %d bindings", len(bindings))
	}
	if bindings[0].Surface != "stockSalesChart" || bindings[1].Surface != "dailySalesChart" {
		t.Fatalf("binding order changed: %+v", bindings)
	}
	cfg := string(bindings[0].Config)
	if strings.Contains(cfg, "first") || !strings.Contains(cfg, "second") {
		t.Fatalf("stale config survived the replace: %s", cfg)
	}
}

func TestConfigShape(t *testing.T) {
	r := New()
	s := spec("Stock and Sold per Product")
	s.Options = map[string]any{"stacked": true}
	if err := r.Replace("stockSalesChart", s); err != nil {
		t.Fatalf("replace: %v", err)
	}
	bindings, err := r.Bindings()
	if err != nil {
		t.Fatalf("bindings: %v", err)
	}
	cfg := string(bindings[0].Config)
	for _, want := range []string{`"type":"bar"`, `"labels":["a","b"]`, `"stacked":true`, "Stock and Sold per Product"} {
		if !strings.Contains(cfg, want) {
			t.Fatalf("config missing %s: %s", want, cfg)
		}
	}
}
