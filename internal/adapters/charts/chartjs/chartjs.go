// Package chartjs collects draw calls as Chart.js configurations for the
// dashboard template to embed. The browser-side Chart.js runtime is the
// actual drawing engine; this renderer only owns the binding of one config
// per canvas.
package chartjs

import (
	"encoding/json"
	"html/template"

	"github.com/phenrril/shopfront/internal/domain"
)

type Renderer struct {
	order []string
	bound map[string]domain.ChartSpec
}

func New() *Renderer {
	return &Renderer{bound: map[string]domain.ChartSpec{}}
}

// Replace drops whatever config was bound to the surface and binds the new
// one. Surface order is first-bind order, so the page layout is stable
// across redraws.
func (r *Renderer) Replace(surface string, spec domain.ChartSpec) error {
	if _, ok := r.bound[surface]; !ok {
		r.order = append(r.order, surface)
	}
	r.bound[surface] = spec
	return nil
}

// Binding is one canvas plus its serialized Chart.js config.
type Binding struct {
	Surface string
	Title   string
	Config  template.JS
}

func (r *Renderer) Bindings() ([]Binding, error) {
	out := make([]Binding, 0, len(r.order))
	for _, surface := range r.order {
		spec := r.bound[surface]
		cfg, err := config(spec)
		if err != nil {
			return nil, err
		}
		out = append(out, Binding{Surface: surface, Title: spec.Title, Config: template.JS(cfg)})
	}
	return out, nil
}

func config(spec domain.ChartSpec) ([]byte, error) {
	options := map[string]any{
		"responsive": true,
		"plugins": map[string]any{
			"title": map[string]any{"display": spec.Title != "", "text": spec.Title},
		},
	}
	stacked := false
	if v, ok := spec.Options["stacked"].(bool); ok {
		stacked = v
	}
	scales := map[string]any{
		"x": map[string]any{"stacked": stacked},
		"y": map[string]any{"stacked": stacked, "beginAtZero": true},
	}
	if max, ok := spec.Options["max"]; ok {
		scales["y"].(map[string]any)["max"] = max
	}
	options["scales"] = scales

	return json.Marshal(map[string]any{
		"type": spec.Type,
		"data": map[string]any{
			"labels":   spec.Labels,
			"datasets": spec.Datasets,
		},
		"options": options,
	})
}
