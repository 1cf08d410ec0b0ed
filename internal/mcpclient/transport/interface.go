// Package transport provides the two client-side transports the MCP
// client can be configured with: a child-process stdio pipe and an
// HTTP+SSE POST-only transport. Both implement Interface so
// mcpclient.Client never branches on transport kind past construction.
package transport

import (
	"context"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// Interface is the client-side transport contract. Start must be
// called exactly once before SendRequest; Close tears the transport
// down (terminating the child process for stdio, a no-op for
// HTTP+SSE beyond releasing the http.Client's idle connections).
type Interface interface {
	// Start establishes the connection (spawns the child process for
	// stdio; validates the base URL for HTTP+SSE).
	Start(ctx context.Context) error

	// SendRequest writes req and returns the raw JSON response body
	// the server sent back — a JSON-RPC result or error object.
	SendRequest(ctx context.Context, req *mcp.JSONRPCRequest) ([]byte, error)

	// SendNotification writes a one-way message; no response is read.
	SendNotification(ctx context.Context, notif *mcp.JSONRPCNotification) error

	// Close releases the transport's resources.
	Close() error
}
