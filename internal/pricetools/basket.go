package pricetools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pricebook/internal/analytics"
	"pricebook/internal/pricedb"
	"pricebook/internal/render"
)

// BasketTool handles the basket_compare MCP tool.
type BasketTool struct {
	db *pricedb.DB
}

// NewBasketTool creates a BasketTool with the given price database.
func NewBasketTool(db *pricedb.DB) *BasketTool {
	return &BasketTool{db: db}
}

// Definition returns the MCP tool definition for basket_compare.
func (t *BasketTool) Definition() mcp.Tool {
	return mcp.NewTool("basket_compare",
		mcp.WithDescription(
			"Compare the cost of a basket of items across cities, using each item's latest "+
				"observed unit price per city. Cities are ordered most expensive first.",
		),
		mcp.WithString("items",
			mcp.Required(),
			mcp.Description("Comma-separated item names (e.g. 'Milk,Bread,Eggs')"),
		),
	)
}

// Handle processes the basket_compare tool call.
func (t *BasketTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var items []string
	for _, it := range strings.Split(req.GetString("items", ""), ",") {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	if len(items) == 0 {
		return mcp.NewToolResultError("'items' is required: a comma-separated list of item names"), nil
	}

	rows, err := t.db.PricesForItems(items)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to query prices: %v", err)), nil
	}
	baskets := analytics.Basket(rows, items)
	if len(baskets) == 0 {
		return mcp.NewToolResultText("No observations for these items yet."), nil
	}

	return mcp.NewToolResultText(render.BasketTable(baskets, "")), nil
}
