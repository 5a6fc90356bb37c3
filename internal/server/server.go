// Package server wires the MCP surface of pricebook.
//
// This is the composition root: it opens the price database and injects
// it into the tool handlers. No business logic lives here, only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"pricebook/internal/pricedb"
	"pricebook/internal/pricetools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all price tools
// registered.
//
// The returned cleanup function closes the price database and must be
// called on shutdown (typically via defer). It is always non-nil and
// safe to call even if initialization failed.
func New(cfg pricedb.Config) (*server.MCPServer, func(), error) {
	db, err := pricedb.Open(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("opening price database: %w", err)
	}
	cleanup := func() { _ = db.Close() }

	s := server.NewMCPServer(
		"pricebook",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	logPrice := pricetools.NewLogPriceTool(db)
	s.AddTool(logPrice.Definition(), logPrice.Handle)

	listData := pricetools.NewListDataTool(db)
	s.AddTool(listData.Definition(), listData.Handle)

	trend := pricetools.NewTrendTool(db)
	s.AddTool(trend.Definition(), trend.Handle)

	basket := pricetools.NewBasketTool(db)
	s.AddTool(basket.Definition(), basket.Handle)

	return s, cleanup, nil
}

func noop() {}

func serverInstructions() string {
	return `pricebook tracks community-observed retail prices in a local SQLite database.

Use log_price to record a price you observed for an item (optionally at a
store in a city). Use list_data to browse items, stores, and recent
observations. Use price_trend to see how an item's unit price moved over
time per city, and basket_compare to find the cheapest city for a list of
items based on the latest observation of each.`
}
