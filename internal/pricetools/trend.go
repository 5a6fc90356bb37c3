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

// TrendTool handles the price_trend MCP tool.
type TrendTool struct {
	db *pricedb.DB
}

// NewTrendTool creates a TrendTool with the given price database.
func NewTrendTool(db *pricedb.DB) *TrendTool {
	return &TrendTool{db: db}
}

// Definition returns the MCP tool definition for price_trend.
func (t *TrendTool) Definition() mcp.Tool {
	return mcp.NewTool("price_trend",
		mcp.WithDescription(
			"Show the unit-price trend of one item over time, grouped by store city. "+
				"The item name is matched case-insensitively.",
		),
		mcp.WithString("item",
			mcp.Required(),
			mcp.Description("Item name to visualize (e.g. 'Milk')"),
		),
	)
}

// Handle processes the price_trend tool call.
func (t *TrendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item := req.GetString("item", "")
	if item == "" {
		return mcp.NewToolResultError("'item' is required"), nil
	}

	rows, err := t.db.PricesForItem(item)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to query prices: %v", err)), nil
	}
	ts := analytics.Trend(rows, item)
	if len(ts.Series) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No observations for item %q yet.", item)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Price Trend: %s (per %s)\n\n", ts.Item, ts.Unit)
	for _, cs := range ts.Series {
		fmt.Fprintf(&sb, "### %s\n\n", cs.City)
		sb.WriteString("| date | unit price |\n")
		sb.WriteString("|------|-----------:|\n")
		for _, p := range cs.Points {
			fmt.Fprintf(&sb, "| %s | %s |\n", p.Date.Format("2006-01-02"), render.Money(p.UnitPrice, ""))
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}
