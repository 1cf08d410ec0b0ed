// Package mcpclient implements the MCP client side of the protocol:
// it mirrors the protocol engine and the two transports as a
// consumer, issuing requests with monotonically increasing ids and
// translating transport/shape/remote failures into the three error
// kinds the spec names (transport_error, protocol_error, remote_error).
//
// Grounded on the teacher's internal/core/mcpclient/client.go, trimmed
// to this module's single-backend scope (the teacher's Client exists
// to proxy many configured backends; this one drives exactly one).
package mcpclient

import (
	"context"
	"encoding/json"
	"sync/atomic"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"

	"github.com/nlpresearchai/dynamicmcp/internal/mcpclient/transport"
)

// Client is the MCP client. It is not safe for concurrent use by
// multiple goroutines issuing requests simultaneously over the stdio
// transport (the child process speaks one request at a time); the
// HTTP+SSE transport tolerates concurrent callers.
type Client struct {
	transport transport.Interface
	requestID atomic.Int64

	serverInfo      mcp.ImplementationSchema
	protocolVersion string
}

// ConnectStdio spawns command (with args) as a child process and wires
// a Client to its stdin/stdout. The child inherits this process's
// environment.
func ConnectStdio(ctx context.Context, command string, args ...string) (*Client, error) {
	t := transport.NewStdio(command, nil, args...)
	if err := t.Start(ctx); err != nil {
		return nil, mcperrors.ErrTransport("failed to start stdio transport", err)
	}
	return &Client{transport: t}, nil
}

// ConnectSSE configures a Client to POST every request to
// "<url>/message". No event stream is opened by the client — server
// push is unused by this API, per the spec's client contract.
func ConnectSSE(ctx context.Context, url string) (*Client, error) {
	t := transport.NewHTTP(url)
	if err := t.Start(ctx); err != nil {
		return nil, mcperrors.ErrTransport("failed to start HTTP+SSE transport", err)
	}
	return &Client{transport: t}, nil
}

// Disconnect tears down the underlying transport (terminates the
// child process for stdio, releases idle connections for HTTP+SSE).
func (c *Client) Disconnect() error {
	return c.transport.Close()
}

// ServerInfo returns the server's self-description recorded by the
// last successful Initialize call.
func (c *Client) ServerInfo() mcp.ImplementationSchema { return c.serverInfo }

// ProtocolVersion returns the protocol version the server reported.
func (c *Client) ProtocolVersion() string { return c.protocolVersion }

func (c *Client) nextID() int64 { return c.requestID.Add(1) }

// call sends a request with the given method/params and returns its
// result payload, translating transport, decode, and remote failures
// into the three client-facing error kinds.
func (c *Client) call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	var raw json.RawMessage
	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return nil, mcperrors.ErrProtocol("failed to marshal params: " + err.Error())
		}
		raw = b
	}

	req := &mcp.JSONRPCRequest{
		JSONRPC: mcp.JSONRPCVersion,
		Id:      c.nextID(),
		Method:  method,
		Params:  raw,
	}

	body, err := c.transport.SendRequest(ctx, req)
	if err != nil {
		return nil, mcperrors.ErrTransport("request failed", err)
	}

	var env struct {
		Id     any               `json:"id"`
		Result json.RawMessage   `json:"result"`
		Error  *mcp.JSONRPCError `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, mcperrors.ErrProtocol("malformed response: " + err.Error())
	}
	if env.Error != nil {
		return nil, mcperrors.ErrRemote(env.Error.Code, env.Error.Message)
	}
	return env.Result, nil
}

// Initialize sends the initialize request, then the
// notifications/initialized acknowledgement, then records the
// server's reported name/version/protocol version.
func (c *Client) Initialize(ctx context.Context, clientInfo mcp.ImplementationSchema) (*mcp.InitializedResult, error) {
	params := mcp.InitializeRequestParams{
		ProtocolVersion: mcp.LatestProtocolVersion,
		ClientInfo:      clientInfo,
	}
	result, err := c.call(ctx, mcp.Initialize, params)
	if err != nil {
		return nil, err
	}

	var initialized mcp.InitializedResult
	if err := json.Unmarshal(result, &initialized); err != nil {
		return nil, mcperrors.ErrProtocol("malformed initialize result: " + err.Error())
	}

	notif := &mcp.JSONRPCNotification{JSONRPC: mcp.JSONRPCVersion, Method: mcp.NotificationInitialized}
	if err := c.transport.SendNotification(ctx, notif); err != nil {
		return nil, mcperrors.ErrTransport("failed to send initialized notification", err)
	}

	c.serverInfo = initialized.ServerInfo
	c.protocolVersion = initialized.ProtocolVersion
	return &initialized, nil
}

// ListTools returns every tool the server has registered.
func (c *Client) ListTools(ctx context.Context) (*mcp.ListToolsResult, error) {
	result, err := c.call(ctx, mcp.ToolsList, nil)
	if err != nil {
		return nil, err
	}
	var out mcp.ListToolsResult
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, mcperrors.ErrProtocol("malformed tools/list result: " + err.Error())
	}
	return &out, nil
}

// CallTool invokes the named tool with the given JSON arguments.
func (c *Client) CallTool(ctx context.Context, name string, arguments any) (*mcp.CallToolResult, error) {
	argBytes, err := json.Marshal(arguments)
	if err != nil {
		return nil, mcperrors.ErrProtocol("failed to marshal arguments: " + err.Error())
	}
	params := mcp.CallToolParams{Name: name, Arguments: argBytes}
	result, err := c.call(ctx, mcp.ToolsCall, params)
	if err != nil {
		return nil, err
	}
	return mcp.ParseCallToolResult(result)
}

// ListResources returns every resource the server has registered.
func (c *Client) ListResources(ctx context.Context) (*mcp.ListResourcesResult, error) {
	result, err := c.call(ctx, mcp.ResourcesList, nil)
	if err != nil {
		return nil, err
	}
	var out mcp.ListResourcesResult
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, mcperrors.ErrProtocol("malformed resources/list result: " + err.Error())
	}
	return &out, nil
}

// ReadResource reads the resource identified by uri.
func (c *Client) ReadResource(ctx context.Context, uri string) (*mcp.ReadResourceResult, error) {
	result, err := c.call(ctx, mcp.ResourcesRead, mcp.ReadResourceParams{URI: uri})
	if err != nil {
		return nil, err
	}
	var out mcp.ReadResourceResult
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, mcperrors.ErrProtocol("malformed resources/read result: " + err.Error())
	}
	return &out, nil
}

// ListPrompts returns every prompt the server has registered.
func (c *Client) ListPrompts(ctx context.Context) (*mcp.ListPromptsResult, error) {
	result, err := c.call(ctx, mcp.PromptsList, nil)
	if err != nil {
		return nil, err
	}
	var out mcp.ListPromptsResult
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, mcperrors.ErrProtocol("malformed prompts/list result: " + err.Error())
	}
	return &out, nil
}

// GetPrompt renders the named prompt with the given JSON arguments.
func (c *Client) GetPrompt(ctx context.Context, name string, arguments any) (*mcp.GetPromptResult, error) {
	argBytes, err := json.Marshal(arguments)
	if err != nil {
		return nil, mcperrors.ErrProtocol("failed to marshal arguments: " + err.Error())
	}
	params := mcp.GetPromptParams{Name: name, Arguments: argBytes}
	result, err := c.call(ctx, mcp.PromptsGet, params)
	if err != nil {
		return nil, err
	}
	var out mcp.GetPromptResult
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, mcperrors.ErrProtocol("malformed prompts/get result: " + err.Error())
	}
	return &out, nil
}
