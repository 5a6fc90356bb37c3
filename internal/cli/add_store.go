package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"

	"github.com/google/subcommands"
)

type addStoreCmd struct {
	name string
	city string
	lat  float64
	lon  float64
}

func (*addStoreCmd) Name() string     { return "add-store" }
func (*addStoreCmd) Synopsis() string { return "add a store / market" }
func (*addStoreCmd) Usage() string {
	return `pricebook add-store -name <name> [-city <city>] [-lat <deg>] [-lon <deg>]

  Registers a market location. Coordinates are optional.
`
}

func (p *addStoreCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Store name (required)")
	f.StringVar(&p.city, "city", "", "City (optional)")
	f.Float64Var(&p.lat, "lat", math.NaN(), "Latitude (optional)")
	f.Float64Var(&p.lon, "lon", math.NaN(), "Longitude (optional)")
}

func (p *addStoreCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.name == "" {
		return fail(errors.New("missing required flag -name"))
	}

	db, err := openDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	id, err := db.AddStore(p.name, p.city, optCoord(p.lat), optCoord(p.lon))
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Store added with id=%d\n", id)
	return subcommands.ExitSuccess
}

// optCoord maps the NaN flag default to an absent coordinate.
func optCoord(v float64) *float64 {
	if math.IsNaN(v) {
		return nil
	}
	return &v
}
