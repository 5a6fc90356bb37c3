package cli

import (
	"context"
	"flag"
	"log"
	"net/http"

	"github.com/google/subcommands"

	"pricebook/internal/dashboard"
)

type dashboardCmd struct {
	addr string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "serve the interactive web dashboard" }
func (*dashboardCmd) Usage() string {
	return `pricebook dashboard [-addr <host:port>] [-db <path>]

  Serves the web UI: log a price, browse items/stores/recent prices,
  view an item's trend chart, and compare basket cost by city.
`
}

func (p *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.addr, "addr", "localhost:8390", "Listen address")
}

func (p *dashboardCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := openDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	srv, err := dashboard.New(db)
	if err != nil {
		return fail(err)
	}

	log.Printf("dashboard listening on http://%s (db: %s)", p.addr, *dbPath)
	if err := http.ListenAndServe(p.addr, srv.Handler()); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
