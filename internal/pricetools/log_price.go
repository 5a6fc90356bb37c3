package pricetools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"pricebook/internal/pricedb"
)

// LogPriceTool handles the log_price MCP tool.
type LogPriceTool struct {
	db *pricedb.DB
}

// NewLogPriceTool creates a LogPriceTool with the given price database.
func NewLogPriceTool(db *pricedb.DB) *LogPriceTool {
	return &LogPriceTool{db: db}
}

// Definition returns the MCP tool definition for log_price.
func (t *LogPriceTool) Definition() mcp.Tool {
	return mcp.NewTool("log_price",
		mcp.WithDescription(
			"Log a price observation for an item, optionally at a store. "+
				"The item is created on first reference; the store is matched by (name, city).",
		),
		mcp.WithString("item",
			mcp.Required(),
			mcp.Description("Item name (e.g. 'Milk')"),
		),
		mcp.WithNumber("price",
			mcp.Required(),
			mcp.Description("Observed price, non-negative"),
		),
		mcp.WithString("unit",
			mcp.Description("Item measurement unit, used when creating the item (e.g. 'liter')"),
		),
		mcp.WithString("store",
			mcp.Description("Store name (optional — observations may have no store)"),
		),
		mcp.WithString("city",
			mcp.Description("Store city (optional)"),
		),
		mcp.WithString("currency",
			mcp.Description("Currency code (default: USD)"),
		),
		mcp.WithNumber("quantity",
			mcp.Description("Amount of the item's unit covered by the price (default: 1)"),
		),
		mcp.WithString("date",
			mcp.Description("Observation date, YYYY-MM-DD (default: today)"),
		),
	)
}

// Handle processes the log_price tool call.
func (t *LogPriceTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	item := req.GetString("item", "")
	if item == "" {
		return mcp.NewToolResultError("'item' is required"), nil
	}
	price, ok := floatArg(req, "price", 0)
	if !ok {
		return mcp.NewToolResultError("'price' is required and must be a number"), nil
	}
	if price < 0 {
		return mcp.NewToolResultError("'price' must be non-negative"), nil
	}
	quantity, _ := floatArg(req, "quantity", 1)

	itemID, err := t.db.GetOrCreateItem(item, req.GetString("unit", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve item: %v", err)), nil
	}
	storeID, err := t.db.GetOrCreateStore(req.GetString("store", ""), req.GetString("city", ""))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to resolve store: %v", err)), nil
	}

	id, err := t.db.AddPrice(pricedb.Observation{
		ItemID:   itemID,
		StoreID:  storeID,
		Price:    price,
		Currency: req.GetString("currency", ""),
		Quantity: quantity,
		Date:     req.GetString("date", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to log price: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Price logged for %q (observation #%d)", item, id)), nil
}
