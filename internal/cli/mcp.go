package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"pricebook/internal/server"
)

type mcpCmd struct{}

func (*mcpCmd) Name() string     { return "mcp" }
func (*mcpCmd) Synopsis() string { return "serve the price tracker over MCP (stdio transport)" }
func (*mcpCmd) Usage() string {
	return `pricebook mcp [-db <path>]

  Starts an MCP server on stdio exposing log_price, list_data,
  price_trend, and basket_compare, so AI assistants can use the same
  store and queries as the CLI and dashboard.
`
}

func (*mcpCmd) SetFlags(f *flag.FlagSet) {}

func (*mcpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, cleanup, err := server.New(storeConfig())
	if err != nil {
		return fail(err)
	}
	defer cleanup()

	if err := mcpserver.ServeStdio(s); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
