package mcp

import "encoding/json"

type (
	// ToolInputSchema is a (deliberately small) JSON Schema object —
	// enough to describe the synthesised tools' parameter shapes.
	ToolInputSchema struct {
		Type       string         `json:"type"`
		Properties map[string]any `json:"properties,omitempty"`
		Required   []string       `json:"required,omitempty"`
	}

	// ToolSchema is the wire representation of a Tool, as returned by
	// tools/list.
	ToolSchema struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		InputSchema ToolInputSchema `json:"inputSchema"`
	}

	// ListToolsResult is the result of tools/list.
	ListToolsResult struct {
		Tools []ToolSchema `json:"tools"`
	}

	// CallToolParams is the params object of tools/call.
	CallToolParams struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	// TextContent is the sole content variant this module produces:
	// per the protocol engine's contract, every tool result collapses to
	// exactly one text block.
	TextContent struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}

	// CallToolResult is the result of tools/call. A handler error never
	// reaches this type: it is mapped to a JSON-RPC error response
	// instead, so every CallToolResult on the wire is a successful call.
	CallToolResult struct {
		Content []TextContent `json:"content"`
	}
)

// NewCallToolResultText wraps a rendered string as a tool result.
func NewCallToolResultText(text string) *CallToolResult {
	return &CallToolResult{Content: []TextContent{{Type: "text", Text: text}}}
}

// StringifyToolResult implements the wire codec's stringification rule:
// a JSON string result is used verbatim, anything else is compactly
// re-encoded.
func StringifyToolResult(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	b, err := json.Marshal(result)
	if err != nil {
		return ""
	}
	return string(b)
}
