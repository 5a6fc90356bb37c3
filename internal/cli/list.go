package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"pricebook/internal/render"
)

type listCmd struct {
	plain bool
	limit int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "dump items, stores, and prices as formatted tables" }
func (*listCmd) Usage() string {
	return `pricebook list [-plain] [-limit <n>]

  Prints the item and store catalogs plus price observations (most
  recent first) as tables, styled for the terminal unless -plain is set.
`
}

func (p *listCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.plain, "plain", false, "Print raw markdown without terminal styling")
	f.IntVar(&p.limit, "limit", 0, "Limit the price table to the n most recent rows (0 = all)")
}

func (p *listCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := requireDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	items, err := db.Items()
	if err != nil {
		return fail(err)
	}
	stores, err := db.Stores()
	if err != nil {
		return fail(err)
	}
	prices, err := db.Prices(p.limit)
	if err != nil {
		return fail(err)
	}

	var sb strings.Builder
	sb.WriteString(render.ItemsTable(items))
	sb.WriteString("\n")
	sb.WriteString(render.StoresTable(stores))
	sb.WriteString("\n")
	sb.WriteString(render.PricesTable(prices))

	out := sb.String()
	if !p.plain {
		out = render.Terminal(out)
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}
