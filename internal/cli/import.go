package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"pricebook/internal/csvio"
)

type importCmd struct {
	file  string
	limit int
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a denormalized price CSV" }
func (*importCmd) Usage() string {
	return `pricebook import -file <path> [-limit <n>] [-db <path>]

  Imports prices from a CSV with the columns
  item,unit,store,city,price,currency,quantity,date. Items and stores
  are upserted per row; rows with unparseable prices are skipped and
  counted rather than failing the batch.
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.file, "file", "", "Path to the CSV file (required)")
	f.IntVar(&p.limit, "limit", 0, "Import only the first n rows (0 = all)")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.file == "" {
		return fail(errors.New("missing required flag -file"))
	}
	if _, err := os.Stat(p.file); err != nil {
		return fail(fmt.Errorf("CSV not found: %s", p.file))
	}

	db, err := requireDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	rep, err := csvio.Import(db, p.file, p.limit)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("Imported %d rows into %s (item/store upsert + price insert)\n", rep.Inserted, *dbPath)
	if rep.Skipped > 0 {
		fmt.Printf("Skipped %d rows with missing or unparseable prices\n", rep.Skipped)
	}
	if rep.BadDates > 0 {
		fmt.Printf("Kept %d rows with unparseable dates as-is\n", rep.BadDates)
	}
	return subcommands.ExitSuccess
}
