package mcp

import (
	"encoding/json"
	"fmt"
)

// ParseCallToolResult decodes a tools/call result payload on the client
// side, where it arrives as a generic JSON value rather than a typed Go
// struct.
func ParseCallToolResult(raw json.RawMessage) (*CallToolResult, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty tool call result")
	}

	var result CallToolResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tool call result: %w", err)
	}
	return &result, nil
}
