// Package pricetools provides MCP tool handlers over the price database.
//
// Each tool handler follows the same pattern:
// - A struct with dependencies (pricedb.DB) injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a result
package pricetools

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// floatArg extracts a float argument from a tool request, returning
// (defaultVal, false) if the key is missing or not a number.
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) (float64, bool) {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal, false
	}
	return v, true
}
