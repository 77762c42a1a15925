// Package analytics turns the flat sales feed into the date-bucketed series
// the dashboard charts bind to. Everything here is a pure transform over
// already-fetched data.
package analytics

import (
	"fmt"
	"time"

	"github.com/phenrril/shopfront/internal/domain"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

// WindowMonths is the trailing month span the dashboard covers.
const WindowMonths = 12

// DailyTotals groups sale events by UTC calendar day and sums
// price*quantity per day. An empty feed yields an empty map.
func DailyTotals(sales []domain.SaleEvent) map[string]float64 {
	totals := make(map[string]float64, len(sales))
	for _, s := range sales {
		day := s.Date.UTC().Format(dayLayout)
		totals[day] += s.Amount()
	}
	return totals
}

// DayAmount is one gap-filled point of a month series.
type DayAmount struct {
	Date   string
	Amount float64
}

// MonthSeries holds every calendar day of one month, zero-filled where the
// feed had no sales.
type MonthSeries struct {
	Month string
	Days  []DayAmount
}

func (m MonthSeries) Total() float64 {
	t := 0.0
	for _, d := range m.Days {
		t += d.Amount
	}
	return t
}

func (m MonthSeries) Labels() []string {
	out := make([]string, len(m.Days))
	for i, d := range m.Days {
		out[i] = d.Date
	}
	return out
}

func (m MonthSeries) Amounts() []float64 {
	out := make([]float64, len(m.Days))
	for i, d := range m.Days {
		out[i] = d.Amount
	}
	return out
}

// MonthlyBuckets expands daily totals into WindowMonths consecutive month
// series ending at reference's month. Every day of every month is present,
// so month lengths (28-31, leap February) and year boundaries come straight
// from the calendar.
func MonthlyBuckets(daily map[string]float64, reference time.Time) []MonthSeries {
	ref := reference.UTC()
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(WindowMonths - 1), 0)

	out := make([]MonthSeries, 0, WindowMonths)
	for i := 0; i < WindowMonths; i++ {
		start := first.AddDate(0, i, 0)
		days := daysIn(start)
		series := MonthSeries{
			Month: start.Format(monthLayout),
			Days:  make([]DayAmount, days),
		}
		for d := 0; d < days; d++ {
			key := start.AddDate(0, 0, d).Format(dayLayout)
			series.Days[d] = DayAmount{Date: key, Amount: daily[key]}
		}
		out = append(out, series)
	}
	return out
}

func daysIn(monthStart time.Time) int {
	return monthStart.AddDate(0, 1, -1).Day()
}

// PercentNA stands in for a month-over-month percentage whose previous
// month had no sales, where any number would be a lie.
const PercentNA = "N/A"

// Delta is a month-over-month comparison. Percent is the growth percentage
// formatted to one decimal, or PercentNA when the previous total is zero.
type Delta struct {
	Diff    float64
	Percent string
}

// MonthOverMonthDelta compares a month's total against its immediate
// predecessor within the bucket window. A month at the window's edge, or one
// not in the window at all, has no usable predecessor and reports PercentNA.
func MonthOverMonthDelta(buckets []MonthSeries, month string) Delta {
	idx := -1
	for i, b := range buckets {
		if b.Month == month {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Delta{Percent: PercentNA}
	}
	current := buckets[idx].Total()
	if idx == 0 {
		return Delta{Diff: current, Percent: PercentNA}
	}
	prev := buckets[idx-1].Total()
	diff := current - prev
	if prev == 0 {
		return Delta{Diff: diff, Percent: PercentNA}
	}
	return Delta{Diff: diff, Percent: fmt.Sprintf("%.1f", diff/prev*100)}
}

// StarHistogram counts reviews per star rating 1..5. Out-of-range ratings
// are dropped.
func StarHistogram(reviews []domain.Review) []float64 {
	counts := make([]float64, 5)
	for _, r := range reviews {
		if r.Stars >= 1 && r.Stars <= 5 {
			counts[r.Stars-1]++
		}
	}
	return counts
}

// ProductLabels extracts chart labels in product order.
func ProductLabels(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

// StockSoldSeries shapes the stacked stock/sold bars.
func StockSoldSeries(products []domain.Product) (sold, stock []float64) {
	sold = make([]float64, len(products))
	stock = make([]float64, len(products))
	for i, p := range products {
		sold[i] = float64(p.Sold)
		stock[i] = float64(p.Stock)
	}
	return sold, stock
}

// ScoreSeries maps average review scores onto the product order, defaulting
// to 0 for products the analysis has no score for.
func ScoreSeries(products []domain.Product, avg map[domain.ID]float64) []float64 {
	out := make([]float64, len(products))
	for i, p := range products {
		out[i] = avg[p.ID]
	}
	return out
}

// SentimentSeries maps the positive/negative splits onto the product order,
// zero where the analysis is silent about a product.
func SentimentSeries(products []domain.Product, sentiments map[domain.ID]domain.Sentiment) (pos, neg []float64) {
	pos = make([]float64, len(products))
	neg = make([]float64, len(products))
	for i, p := range products {
		s := sentiments[p.ID]
		pos[i] = float64(s.Positive)
		neg[i] = float64(s.Negative)
	}
	return pos, neg
}
