// Package charts renders trend and basket aggregates as self-contained
// HTML chart pages. It is pure presentation: all numbers arrive already
// computed by the analytics package.
package charts

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"pricebook/internal/analytics"
)

// ErrNoData reports that there was nothing to render. Callers must treat
// it as an informational condition, distinct from a rendering failure.
var ErrNoData = errors.New("charts: no data to render")

// WriteTrend streams a line chart of the item's unit-price trend, one
// series per city, to w.
func WriteTrend(w io.Writer, ts analytics.TrendSeries) error {
	if len(ts.Series) == 0 {
		return ErrNoData
	}
	if err := trendLine(ts).Render(w); err != nil {
		return fmt.Errorf("charts: render trend: %w", err)
	}
	return nil
}

// RenderTrend writes the trend chart to an HTML file at path.
func RenderTrend(ts analytics.TrendSeries, path string) error {
	if len(ts.Series) == 0 {
		return ErrNoData
	}
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteTrend(f, ts)
}

// WriteBasket streams a bar chart of per-city basket totals to w.
func WriteBasket(w io.Writer, baskets []analytics.CityBasket) error {
	if len(baskets) == 0 {
		return ErrNoData
	}
	if err := basketBar(baskets).Render(w); err != nil {
		return fmt.Errorf("charts: render basket: %w", err)
	}
	return nil
}

// RenderBasket writes the basket chart to an HTML file at path.
func RenderBasket(baskets []analytics.CityBasket, path string) error {
	if len(baskets) == 0 {
		return ErrNoData
	}
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteBasket(f, baskets)
}

// TrendFileName is the chart file name for an item, e.g. "Whole Milk" →
// "trend_whole_milk.html".
func TrendFileName(item string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(item), " ", "_"))
	return "trend_" + slug + ".html"
}

// BasketFileName is the fixed chart file name for basket comparisons.
const BasketFileName = "basket_by_city.html"

func trendLine(ts analytics.TrendSeries) *echarts.Line {
	title := fmt.Sprintf("Price Trend: %s", ts.Item)
	if ts.Unit != "" {
		title = fmt.Sprintf("Price Trend: %s (per %s)", ts.Item, ts.Unit)
	}

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
	)

	// One shared x axis of all observation dates. A city can log the same
	// item twice on one date, so each date gets as many slots as the
	// busiest city needs; cities without an observation in a slot get a
	// gap.
	slots := map[string]int{}
	for _, cs := range ts.Series {
		perDate := map[string]int{}
		for _, p := range cs.Points {
			d := p.Date.Format("2006-01-02")
			perDate[d]++
			if perDate[d] > slots[d] {
				slots[d] = perDate[d]
			}
		}
	}
	dates := make([]string, 0, len(slots))
	for d := range slots {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	var axis []string
	offset := map[string]int{}
	for _, d := range dates {
		offset[d] = len(axis)
		for i := 0; i < slots[d]; i++ {
			axis = append(axis, d)
		}
	}
	line.SetXAxis(axis)

	for _, cs := range ts.Series {
		data := make([]opts.LineData, len(axis))
		for i := range data {
			data[i] = opts.LineData{Value: nil}
		}
		taken := map[string]int{}
		for _, p := range cs.Points {
			d := p.Date.Format("2006-01-02")
			data[offset[d]+taken[d]] = opts.LineData{Value: p.UnitPrice}
			taken[d]++
		}
		line.AddSeries(cs.City, data)
	}
	return line
}

func basketBar(baskets []analytics.CityBasket) *echarts.Bar {
	const title = "Basket Cost by City (sum of latest unit prices)"

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{PageTitle: title}),
		echarts.WithTitleOpts(opts.Title{Title: title}),
	)

	cities := make([]string, len(baskets))
	data := make([]opts.BarData, len(baskets))
	for i, b := range baskets {
		cities[i] = b.City
		data[i] = opts.BarData{Value: b.Total}
	}
	bar.SetXAxis(cities)
	bar.AddSeries("basket", data)
	return bar
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("charts: create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("charts: create %s: %w", path, err)
	}
	return f, nil
}
