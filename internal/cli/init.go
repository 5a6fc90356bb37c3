package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type initCmd struct{}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create the price database schema" }
func (*initCmd) Usage() string {
	return `pricebook init [-db <path>]

  Creates the SQLite database file and its schema (items, stores,
  prices) if they do not exist. Safe to run repeatedly.
`
}

func (*initCmd) SetFlags(f *flag.FlagSet) {}

func (*initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, err := openDB()
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	fmt.Printf("Database initialized at %s\n", *dbPath)
	return subcommands.ExitSuccess
}
