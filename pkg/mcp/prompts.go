package mcp

import "encoding/json"

type (
	// PromptArgumentSchema describes one named argument a prompt accepts.
	PromptArgumentSchema struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Required    bool   `json:"required"`
	}

	// PromptSchema is the wire representation of a Prompt.
	PromptSchema struct {
		Name        string                 `json:"name"`
		Description string                 `json:"description"`
		Arguments   []PromptArgumentSchema `json:"arguments"`
	}

	// ListPromptsResult is the result of prompts/list.
	ListPromptsResult struct {
		Prompts []PromptSchema `json:"prompts"`
	}

	// GetPromptParams is the params object of prompts/get.
	GetPromptParams struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}

	// PromptMessage is one turn of a rendered prompt.
	PromptMessage struct {
		Role    string      `json:"role"`
		Content TextContent `json:"content"`
	}

	// GetPromptResult is the result of prompts/get.
	GetPromptResult struct {
		Description string          `json:"description"`
		Messages    []PromptMessage `json:"messages"`
	}
)
