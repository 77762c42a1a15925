package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/phenrril/shopfront/internal/analytics"
	"github.com/phenrril/shopfront/internal/domain"
)

// Chart surface ids, one canvas each on the dashboard page.
const (
	SurfaceStockSales = "stockSalesChart"
	SurfaceDailySales = "dailySalesChart"
	SurfaceReviews    = "reviewChart"
	SurfaceAvgScore   = "avgScoreChart"
	SurfaceSentiment  = "sentimentChart"
)

var ErrNotLoaded = errors.New("dashboard: not loaded")

// DashboardUC fetches the dashboard's inputs once, derives the chart series
// and owns the interaction state: the product sort and the selected month.
// Resort and SelectMonth recompute and redraw from held data, never
// refetching; every draw goes through the renderer's Replace so no stale
// chart stays bound to a surface.
type DashboardUC struct {
	API    domain.StoreAPI
	Charts domain.ChartRenderer
	Now    func() time.Time

	products []domain.Product
	reviews  []domain.Review
	analysis domain.Analysis
	buckets  []analytics.MonthSeries
	month    string
	loaded   bool
}

// Load fetches products, sales, reviews and the analysis payload, then
// draws every chart. Any failed fetch aborts the load; the caller renders a
// visible error state instead of a partial dashboard.
func (uc *DashboardUC) Load(ctx context.Context) error {
	products, err := uc.API.Products(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: products: %w", err)
	}
	sales, err := uc.API.Sales(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: sales: %w", err)
	}
	reviews, err := uc.API.Reviews(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: reviews: %w", err)
	}
	analysis, err := uc.API.Analysis(ctx)
	if err != nil {
		return fmt.Errorf("dashboard: analysis: %w", err)
	}

	now := time.Now
	if uc.Now != nil {
		now = uc.Now
	}
	uc.products = products
	uc.reviews = reviews
	uc.analysis = analysis
	uc.buckets = analytics.MonthlyBuckets(analytics.DailyTotals(sales), now())
	uc.month = uc.buckets[len(uc.buckets)-1].Month
	uc.loaded = true

	if err := uc.drawProductCharts(); err != nil {
		return err
	}
	if err := uc.drawReviewChart(); err != nil {
		return err
	}
	return uc.drawDailyChart()
}

// Resort reorders the held product set and redraws the product-bound
// charts. String fields compare case-insensitively; numeric fields missing
// from a product read as 0.
func (uc *DashboardUC) Resort(field string, descending bool) error {
	if !uc.loaded {
		return ErrNotLoaded
	}
	ps := uc.products
	less := func(a, b domain.Product) bool {
		switch field {
		case "name":
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		case "category":
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		case "price":
			return a.Price < b.Price
		case "sold":
			return a.Sold < b.Sold
		default: // stock
			return a.Stock < b.Stock
		}
	}
	sort.SliceStable(ps, func(i, j int) bool {
		if descending {
			return less(ps[j], ps[i])
		}
		return less(ps[i], ps[j])
	})
	return uc.drawProductCharts()
}

// SelectMonth redraws the daily-sales chart for a month already inside the
// bucket window. No data is refetched.
func (uc *DashboardUC) SelectMonth(month string) error {
	if !uc.loaded {
		return ErrNotLoaded
	}
	for _, b := range uc.buckets {
		if b.Month == month {
			uc.month = month
			return uc.drawDailyChart()
		}
	}
	return fmt.Errorf("dashboard: month %s outside the %d-month window", month, analytics.WindowMonths)
}

func (uc *DashboardUC) Products() []domain.Product { return uc.products }
func (uc *DashboardUC) Month() string              { return uc.month }

func (uc *DashboardUC) Months() []string {
	out := make([]string, len(uc.buckets))
	for i, b := range uc.buckets {
		out[i] = b.Month
	}
	return out
}

// Delta is the month-over-month comparison for the selected month.
func (uc *DashboardUC) Delta() analytics.Delta {
	return analytics.MonthOverMonthDelta(uc.buckets, uc.month)
}

func (uc *DashboardUC) selected() analytics.MonthSeries {
	for _, b := range uc.buckets {
		if b.Month == uc.month {
			return b
		}
	}
	return analytics.MonthSeries{}
}

func (uc *DashboardUC) drawProductCharts() error {
	labels := analytics.ProductLabels(uc.products)
	sold, stock := analytics.StockSoldSeries(uc.products)
	if err := uc.Charts.Replace(SurfaceStockSales, domain.ChartSpec{
		Type:   "bar",
		Title:  "Stock and Sold per Product",
		Labels: labels,
		Datasets: []domain.ChartDataset{
			{Label: "Sold", Data: sold, Color: "rgba(255, 99, 132, 0.7)", Stack: "stock"},
			{Label: "Stock", Data: stock, Color: "rgba(75, 192, 192, 0.7)", Stack: "stock"},
		},
		Options: map[string]any{"stacked": true},
	}); err != nil {
		return err
	}

	if err := uc.Charts.Replace(SurfaceAvgScore, domain.ChartSpec{
		Type:   "bar",
		Title:  "Average Review Score",
		Labels: labels,
		Datasets: []domain.ChartDataset{
			{Label: "Average Review Score", Data: analytics.ScoreSeries(uc.products, uc.analysis.AvgScores), Color: "rgba(153, 102, 255, 0.6)"},
		},
		Options: map[string]any{"max": 5},
	}); err != nil {
		return err
	}

	pos, neg := analytics.SentimentSeries(uc.products, uc.analysis.Sentiments)
	return uc.Charts.Replace(SurfaceSentiment, domain.ChartSpec{
		Type:   "bar",
		Title:  "Review Sentiment per Product",
		Labels: labels,
		Datasets: []domain.ChartDataset{
			{Label: "Positive", Data: pos, Color: "rgba(75, 192, 192, 0.7)", Stack: "sentiment"},
			{Label: "Negative", Data: neg, Color: "rgba(255, 99, 132, 0.7)", Stack: "sentiment"},
		},
		Options: map[string]any{"stacked": true},
	})
}

func (uc *DashboardUC) drawReviewChart() error {
	return uc.Charts.Replace(SurfaceReviews, domain.ChartSpec{
		Type:   "bar",
		Title:  "Review Count per Rating",
		Labels: []string{"★1", "★2", "★3", "★4", "★5"},
		Datasets: []domain.ChartDataset{
			{Label: "Review Count", Data: analytics.StarHistogram(uc.reviews), Color: "rgba(75, 192, 192, 0.5)"},
		},
	})
}

func (uc *DashboardUC) drawDailyChart() error {
	series := uc.selected()
	return uc.Charts.Replace(SurfaceDailySales, domain.ChartSpec{
		Type:   "line",
		Title:  "Daily Sales " + series.Month,
		Labels: series.Labels(),
		Datasets: []domain.ChartDataset{
			{Label: "Daily Sales (¥)", Data: series.Amounts(), Color: "rgba(255, 99, 132, 1)"},
		},
	})
}
