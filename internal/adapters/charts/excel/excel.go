// Package excel renders draw calls into an xlsx workbook, one sheet per
// surface, for the dashboard export. Replacing a surface tears the sheet
// down and rebuilds it, so a previously drawn chart can never survive a
// redraw.
package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/phenrril/shopfront/internal/domain"
)

const chartAnchor = "F2"

type Renderer struct {
	f      *excelize.File
	sheets map[string]bool
}

func New() *Renderer {
	return &Renderer{f: excelize.NewFile(), sheets: map[string]bool{}}
}

func (r *Renderer) Replace(surface string, spec domain.ChartSpec) error {
	if r.sheets[surface] {
		if err := r.f.DeleteSheet(surface); err != nil {
			return err
		}
	}
	if _, err := r.f.NewSheet(surface); err != nil {
		return err
	}
	r.sheets[surface] = true

	if err := r.writeData(surface, spec); err != nil {
		return err
	}
	chart, err := buildChart(surface, spec)
	if err != nil {
		return err
	}
	return r.f.AddChart(surface, chartAnchor, chart)
}

func (r *Renderer) writeData(sheet string, spec domain.ChartSpec) error {
	for i, label := range spec.Labels {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := r.f.SetCellValue(sheet, cell, label); err != nil {
			return err
		}
	}
	for col, ds := range spec.Datasets {
		head, err := excelize.CoordinatesToCellName(col+2, 1)
		if err != nil {
			return err
		}
		if err := r.f.SetCellValue(sheet, head, ds.Label); err != nil {
			return err
		}
		for row, v := range ds.Data {
			cell, err := excelize.CoordinatesToCellName(col+2, row+2)
			if err != nil {
				return err
			}
			if err := r.f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func buildChart(sheet string, spec domain.ChartSpec) (*excelize.Chart, error) {
	stacked := false
	if v, ok := spec.Options["stacked"].(bool); ok {
		stacked = v
	}
	var typ excelize.ChartType
	switch spec.Type {
	case "line":
		typ = excelize.Line
	case "bar":
		if stacked {
			typ = excelize.ColStacked
		} else {
			typ = excelize.Col
		}
	default:
		return nil, fmt.Errorf("excel: unsupported chart type %q", spec.Type)
	}

	n := len(spec.Labels)
	series := make([]excelize.ChartSeries, 0, len(spec.Datasets))
	for i := range spec.Datasets {
		colName, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return nil, err
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$%s$1", sheet, colName),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sheet, n+1),
			Values:     fmt.Sprintf("'%s'!$%s$2:$%s$%d", sheet, colName, colName, n+1),
		})
	}

	return &excelize.Chart{
		Type:   typ,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: spec.Title}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	}, nil
}

// WriteTo drops the stock default sheet and streams the workbook.
func (r *Renderer) WriteTo(w io.Writer) error {
	if len(r.sheets) > 0 {
		_ = r.f.DeleteSheet("Sheet1")
	}
	return r.f.Write(w)
}
