// pricebook: community price tracker
//
// Log observed retail prices for items at stores and cities, then
// compare unit-price trends over time and basket costs across cities.
//
// Usage:
//
//	pricebook init                              # create the database schema
//	pricebook add-price -item Milk -price 1.3   # log an observation
//	pricebook list                              # dump the tables
//	pricebook charts -items Milk -basket Milk,Bread
//	pricebook dashboard                         # interactive web UI
//	pricebook mcp                               # MCP server on stdio
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"

	"pricebook/internal/cli"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cli.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
