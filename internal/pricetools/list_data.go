package pricetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pricebook/internal/pricedb"
	"pricebook/internal/render"
)

// listPricesLimit caps the price table in the list_data result.
const listPricesLimit = 20

// ListDataTool handles the list_data MCP tool.
type ListDataTool struct {
	db *pricedb.DB
}

// NewListDataTool creates a ListDataTool with the given price database.
func NewListDataTool(db *pricedb.DB) *ListDataTool {
	return &ListDataTool{db: db}
}

// Definition returns the MCP tool definition for list_data.
func (t *ListDataTool) Definition() mcp.Tool {
	return mcp.NewTool("list_data",
		mcp.WithDescription(
			"List tracked items, stores, and the most recent price observations as markdown tables.",
		),
	)
}

// Handle processes the list_data tool call.
func (t *ListDataTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	items, err := t.db.Items()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list items: %v", err)), nil
	}
	stores, err := t.db.Stores()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list stores: %v", err)), nil
	}
	prices, err := t.db.Prices(listPricesLimit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list prices: %v", err)), nil
	}

	var sb strings.Builder
	sb.WriteString(render.ItemsTable(items))
	sb.WriteString("\n")
	sb.WriteString(render.StoresTable(stores))
	sb.WriteString("\n")
	sb.WriteString(render.PricesTable(prices))

	return mcp.NewToolResultText(sb.String()), nil
}
