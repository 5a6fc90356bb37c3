// Package analytics derives trend and basket views from raw price rows.
//
// Both transforms work on the joined rows produced by pricedb and never
// touch the database themselves. Unit prices are computed here, at query
// time; a zero quantity makes the unit price unavailable rather than an
// error.
package analytics

import (
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"pricebook/internal/pricedb"
)

// UnknownCity labels trend buckets for observations without a store city.
const UnknownCity = "Unknown"

// ─── Types ───────────────────────────────────────────────────────────────────

// TrendPoint is one observation in a city's unit-price series.
type TrendPoint struct {
	Date      time.Time `json:"date"`
	UnitPrice float64   `json:"unit_price"`
}

// CitySeries is the ordered unit-price series for one city.
type CitySeries struct {
	City   string       `json:"city"`
	Points []TrendPoint `json:"points"`
}

// TrendSeries is the per-city price trend of a single item. Series is
// empty when no observation matches the item.
type TrendSeries struct {
	Item   string       `json:"item"`
	Unit   string       `json:"unit"`
	Series []CitySeries `json:"series"`
}

// BasketLine is the latest usable observation of one item in one city.
type BasketLine struct {
	Item          string    `json:"item"`
	UnitPrice     float64   `json:"unit_price"`
	Date          time.Time `json:"date"`
	ObservationID int64     `json:"observation_id"`
}

// CityBasket is the summed latest unit price of a basket in one city.
type CityBasket struct {
	City  string       `json:"city"`
	Total float64      `json:"total"`
	Items []BasketLine `json:"items"`
}

// ─── Unit price ──────────────────────────────────────────────────────────────

// UnitPrice returns price divided by quantity. The second return is
// false when quantity is zero or negative, in which case the unit price
// is unavailable.
func UnitPrice(price, quantity float64) (float64, bool) {
	if quantity <= 0 {
		return 0, false
	}
	return price / quantity, true
}

// ─── Trend ───────────────────────────────────────────────────────────────────

// Trend builds the per-city unit-price series of one item, matched by
// name case-insensitively. Points are ordered by date then observation
// id; observations without a city land in the "Unknown" bucket; rows
// whose unit price is unavailable are dropped. An empty Series means no
// data, not an error.
func Trend(rows []pricedb.PriceRow, item string) TrendSeries {
	want := strings.ToLower(strings.TrimSpace(item))
	ts := TrendSeries{Item: strings.TrimSpace(item)}
	if want == "" {
		return ts
	}

	type dated struct {
		row pricedb.PriceRow
		t   time.Time
	}
	var matched []dated
	for _, r := range rows {
		if strings.ToLower(r.Item) != want {
			continue
		}
		if ts.Unit == "" {
			ts.Unit = r.Unit
		}
		t, _ := parseDate(r.Date) // unparseable dates sort first
		matched = append(matched, dated{row: r, t: t})
	}
	if len(matched) == 0 {
		return ts
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].t.Equal(matched[j].t) {
			return matched[i].t.Before(matched[j].t)
		}
		return matched[i].row.ID < matched[j].row.ID
	})

	byCity := map[string][]TrendPoint{}
	for _, m := range matched {
		up, ok := UnitPrice(m.row.Price, m.row.Quantity)
		if !ok {
			continue
		}
		city := cityLabel(m.row.City)
		byCity[city] = append(byCity[city], TrendPoint{Date: m.t, UnitPrice: up})
	}

	cities := make([]string, 0, len(byCity))
	for c := range byCity {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	for _, c := range cities {
		ts.Series = append(ts.Series, CitySeries{City: c, Points: byCity[c]})
	}
	return ts
}

// ─── Basket ──────────────────────────────────────────────────────────────────

// Basket answers "what would this basket cost today in each city": for
// every (city, item) pair it keeps only the chronologically latest
// observation (ties broken by highest observation id), computes its unit
// price, and sums across items per city. Observations without a city and
// latest observations whose unit price is unavailable do not contribute.
// Cities are ordered by total descending, then name. An empty result
// means no data, not an error.
func Basket(rows []pricedb.PriceRow, items []string) []CityBasket {
	wanted := map[string]bool{}
	for _, it := range items {
		if it = strings.ToLower(strings.TrimSpace(it)); it != "" {
			wanted[it] = true
		}
	}
	if len(wanted) == 0 {
		return nil
	}

	type key struct{ city, item string }
	type candidate struct {
		row pricedb.PriceRow
		t   time.Time
	}
	latest := map[key]candidate{}
	for _, r := range rows {
		if !wanted[strings.ToLower(r.Item)] {
			continue
		}
		if r.City == nil || strings.TrimSpace(*r.City) == "" {
			continue
		}
		t, _ := parseDate(r.Date)
		k := key{city: strings.TrimSpace(*r.City), item: strings.ToLower(r.Item)}
		cur, seen := latest[k]
		if !seen || t.After(cur.t) || (t.Equal(cur.t) && r.ID > cur.row.ID) {
			latest[k] = candidate{row: r, t: t}
		}
	}

	byCity := map[string][]BasketLine{}
	for k, c := range latest {
		up, ok := UnitPrice(c.row.Price, c.row.Quantity)
		if !ok {
			continue
		}
		byCity[k.city] = append(byCity[k.city], BasketLine{
			Item:          c.row.Item,
			UnitPrice:     up,
			Date:          c.t,
			ObservationID: c.row.ID,
		})
	}

	baskets := make([]CityBasket, 0, len(byCity))
	for city, lines := range byCity {
		sort.Slice(lines, func(i, j int) bool { return lines[i].Item < lines[j].Item })
		total := 0.0
		for _, l := range lines {
			total += l.UnitPrice
		}
		baskets = append(baskets, CityBasket{City: city, Total: total, Items: lines})
	}
	sort.Slice(baskets, func(i, j int) bool {
		if baskets[i].Total != baskets[j].Total {
			return baskets[i].Total > baskets[j].Total
		}
		return baskets[i].City < baskets[j].City
	})
	return baskets
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func cityLabel(city *string) string {
	if city == nil || strings.TrimSpace(*city) == "" {
		return UnknownCity
	}
	return strings.TrimSpace(*city)
}

// parseDate is a best-effort calendar date parse. The zero time (and
// ok=false) comes back for blank or unparseable input, which makes such
// rows sort before any dated ones.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
