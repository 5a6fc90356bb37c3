package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"pricebook/internal/analytics"
	"pricebook/internal/charts"
)

type chartsCmd struct {
	items  string
	basket string
	outdir string
}

func (*chartsCmd) Name() string     { return "charts" }
func (*chartsCmd) Synopsis() string { return "render trend and basket charts from stored prices" }
func (*chartsCmd) Usage() string {
	return `pricebook charts [-items <a,b,...>] [-basket <a,b,...>] [-outdir <dir>]

  Renders one unit-price trend chart per item in -items and a single
  basket-cost-by-city chart for the -basket list, as HTML files in the
  output directory. Items with no observations are reported, not errors.
`
}

func (p *chartsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.items, "items", "", "Comma-separated item names to plot trends for")
	f.StringVar(&p.basket, "basket", "", "Comma-separated item names to compare as a basket")
	f.StringVar(&p.outdir, "outdir", "outputs", "Directory for generated chart files")
}

func (p *chartsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	trendItems := splitList(p.items)
	basketItems := splitList(p.basket)
	if len(trendItems) == 0 && len(basketItems) == 0 {
		return fail(errors.New("nothing to do: pass -items and/or -basket"))
	}

	db, err := requireDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	for _, item := range trendItems {
		rows, err := db.PricesForItem(item)
		if err != nil {
			return fail(err)
		}
		ts := analytics.Trend(rows, item)
		path := filepath.Join(p.outdir, charts.TrendFileName(item))
		switch err := charts.RenderTrend(ts, path); {
		case errors.Is(err, charts.ErrNoData):
			fmt.Printf("No data for item %q\n", item)
		case err != nil:
			return fail(err)
		default:
			fmt.Printf("Trend saved: %s\n", path)
		}
	}

	if len(basketItems) > 0 {
		rows, err := db.PricesForItems(basketItems)
		if err != nil {
			return fail(err)
		}
		baskets := analytics.Basket(rows, basketItems)
		path := filepath.Join(p.outdir, charts.BasketFileName)
		switch err := charts.RenderBasket(baskets, path); {
		case errors.Is(err, charts.ErrNoData):
			fmt.Println("No data for the selected basket.")
		case err != nil:
			return fail(err)
		default:
			fmt.Printf("Basket saved: %s\n", path)
		}
	}
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
