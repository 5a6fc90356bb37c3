package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pricebook/internal/pricedb"
)

type addPriceCmd struct {
	item     string
	storeID  int64
	price    float64
	currency string
	quantity float64
	date     string
}

func (*addPriceCmd) Name() string     { return "add-price" }
func (*addPriceCmd) Synopsis() string { return "log a price observation" }
func (*addPriceCmd) Usage() string {
	return `pricebook add-price -item <name> -price <value> [-store-id <id>] [-currency <code>] [-quantity <n>] [-date <YYYY-MM-DD>]

  Appends a price observation. The item is created on first reference;
  the store id, when given, must already exist.
`
}

func (p *addPriceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.item, "item", "", "Item name (required, e.g. Milk)")
	f.Int64Var(&p.storeID, "store-id", 0, "Existing store id (optional)")
	f.Float64Var(&p.price, "price", -1, "Observed price (required, non-negative)")
	f.StringVar(&p.currency, "currency", "USD", "Currency code")
	f.Float64Var(&p.quantity, "quantity", 1, "How many units the price covers")
	f.StringVar(&p.date, "date", pricedb.Today(), "Observation date")
}

func (p *addPriceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.item == "" {
		return fail(errors.New("missing required flag -item"))
	}
	if p.price < 0 {
		return fail(errors.New("missing or negative -price"))
	}

	db, err := openDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	itemID, err := db.GetOrCreateItem(p.item, "")
	if err != nil {
		return fail(err)
	}
	var storeID *int64
	if p.storeID > 0 {
		storeID = &p.storeID
	}

	id, err := db.AddPrice(pricedb.Observation{
		ItemID:   itemID,
		StoreID:  storeID,
		Price:    p.price,
		Currency: p.currency,
		Quantity: p.quantity,
		Date:     p.date,
	})
	if err != nil {
		if pricedb.IsForeignKeyViolation(err) {
			return fail(fmt.Errorf("store id %d does not exist: %w", p.storeID, err))
		}
		return fail(err)
	}
	fmt.Printf("Price logged (observation #%d)\n", id)
	return subcommands.ExitSuccess
}
