package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type addItemCmd struct {
	name     string
	category string
	unit     string
}

func (*addItemCmd) Name() string     { return "add-item" }
func (*addItemCmd) Synopsis() string { return "add a new item (e.g. Bread, Milk)" }
func (*addItemCmd) Usage() string {
	return `pricebook add-item -name <name> [-category <category>] [-unit <unit>]

  Registers a trackable item. Item names are unique; adding an existing
  name is a no-op.
`
}

func (p *addItemCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Item name (required)")
	f.StringVar(&p.category, "category", "general", "Free-text category")
	f.StringVar(&p.unit, "unit", "unit", "Measurement unit: kg, liter, loaf, dozen, etc.")
}

func (p *addItemCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.name == "" {
		return fail(errors.New("missing required flag -name"))
	}

	db, err := openDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	id, created, err := db.AddItem(p.name, p.category, p.unit)
	if err != nil {
		return fail(err)
	}
	if created {
		fmt.Printf("Item added. id=%d\n", id)
	} else {
		fmt.Printf("Item already existed. id=%d\n", id)
	}
	return subcommands.ExitSuccess
}
