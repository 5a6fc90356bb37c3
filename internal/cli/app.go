// Package cli implements the pricebook command-line application.
//
// Every command is one operation: it resolves the database location from
// the shared -db flag once, opens a connection, does its work, and
// closes the connection on all exit paths. Errors go to stderr with a
// non-zero exit; confirmations go to stdout.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"pricebook/internal/pricedb"
)

// Register the subcommands.
// A main package calls Register() to set up the commander, then
// Execute() on the user-selected command.
func Register(c *subcommands.Commander) {
	c.Register(&initCmd{}, "store")
	c.Register(&addItemCmd{}, "store")
	c.Register(&addStoreCmd{}, "store")
	c.Register(&addPriceCmd{}, "store")

	c.Register(&listCmd{}, "data")
	c.Register(&importCmd{}, "data")
	c.Register(&generateCmd{}, "data")

	c.Register(&chartsCmd{}, "reports")

	c.Register(&dashboardCmd{}, "serve")
	c.Register(&mcpCmd{}, "serve")
}

// As a CLI application the lifecycle is short-lived, so the shared
// database flag is a package global resolved once by flag.Parse.
var dbPath = flag.String("db", "data/prices.db", "Path to the SQLite price database")

// storeConfig resolves the database configuration from the shared flag.
func storeConfig() pricedb.Config {
	return pricedb.Config{Path: *dbPath}
}

// openDB opens (creating and migrating if needed) the price database.
func openDB() (*pricedb.DB, error) {
	return pricedb.Open(storeConfig())
}

// requireDB opens the price database only if its file already exists,
// pointing the user at init otherwise.
func requireDB() (*pricedb.DB, error) {
	if _, err := os.Stat(*dbPath); err != nil {
		return nil, fmt.Errorf("price database not found at %s (run \"pricebook init\" first)", *dbPath)
	}
	return openDB()
}

// fail reports an error to stderr and maps it to a failure exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
