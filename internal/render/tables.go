// Package render formats items, stores, prices, and basket totals as
// markdown tables, with optional terminal styling.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"

	"pricebook/internal/analytics"
	"pricebook/internal/pricedb"
)

// Money formats a major-unit amount in the given currency, e.g.
// Money(1.2, "USD") → "$1.20". Unknown codes fall back to go-money's
// default formatting.
func Money(v float64, code string) string {
	if code == "" {
		code = "USD"
	}
	return money.NewFromFloat(v, code).Display()
}

// ItemsTable renders all items as a markdown table.
func ItemsTable(items []pricedb.Item) string {
	var b strings.Builder
	b.WriteString("## Items\n\n")
	if len(items) == 0 {
		b.WriteString("_No items yet._\n")
		return b.String()
	}
	b.WriteString("| id | name | category | unit |\n")
	b.WriteString("|---:|------|----------|------|\n")
	for _, it := range items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", it.ID, it.Name, it.Category, it.Unit)
	}
	return b.String()
}

// StoresTable renders all stores as a markdown table.
func StoresTable(stores []pricedb.Store) string {
	var b strings.Builder
	b.WriteString("## Stores\n\n")
	if len(stores) == 0 {
		b.WriteString("_No stores yet._\n")
		return b.String()
	}
	b.WriteString("| id | name | city | lat | lon |\n")
	b.WriteString("|---:|------|------|----:|----:|\n")
	for _, st := range stores {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s |\n",
			st.ID, st.Name, deref(st.City), coord(st.Latitude), coord(st.Longitude))
	}
	return b.String()
}

// PricesTable renders joined price rows, most recent first, with the
// derived unit price column ("n/a" when the quantity makes it
// unavailable).
func PricesTable(rows []pricedb.PriceRow) string {
	var b strings.Builder
	b.WriteString("## Prices\n\n")
	if len(rows) == 0 {
		b.WriteString("_No prices yet._\n")
		return b.String()
	}
	b.WriteString("| id | item | unit | store | city | price | qty | unit price | date |\n")
	b.WriteString("|---:|------|------|-------|------|------:|----:|-----------:|------|\n")
	for _, r := range rows {
		unitPrice := "n/a"
		if up, ok := analytics.UnitPrice(r.Price, r.Quantity); ok {
			unitPrice = Money(up, r.Currency)
		}
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.ID, r.Item, r.Unit, deref(r.Store), deref(r.City),
			Money(r.Price, r.Currency), trimFloat(r.Quantity), unitPrice, r.Date)
	}
	return b.String()
}

// BasketTable renders per-city basket totals, most expensive city first.
// The currency code is presentation-only: basket sums do not convert
// between currencies.
func BasketTable(baskets []analytics.CityBasket, currency string) string {
	var b strings.Builder
	b.WriteString("## Basket Cost by City\n\n")
	if len(baskets) == 0 {
		b.WriteString("_No data for the selected basket._\n")
		return b.String()
	}
	b.WriteString("| city | total | items |\n")
	b.WriteString("|------|------:|-------|\n")
	for _, ba := range baskets {
		names := make([]string, len(ba.Items))
		for i, line := range ba.Items {
			names[i] = fmt.Sprintf("%s %s", line.Item, Money(line.UnitPrice, currency))
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", ba.City, Money(ba.Total, currency), strings.Join(names, ", "))
	}
	return b.String()
}

// Terminal styles markdown for ANSI terminals. On any renderer failure
// the raw markdown comes back unchanged, so output is never lost.
func Terminal(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func coord(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
