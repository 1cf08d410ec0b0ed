// Package protocol implements the MCP protocol engine: method dispatch,
// the initialize/operate lifecycle, and capability negotiation. It is
// transport-agnostic — both the stdio and HTTP+SSE transports decode a
// line/body into an *mcp.JSONRPCRequest, hand it to Engine.Handle, and
// write back whatever it returns.
//
// Grounded on the dispatch switch in the teacher's handlePostMessage
// (internal/core/sse.go) and on mcp_server.cpp's handle_request, with
// the gateway's multi-backend routing collapsed away: this engine has
// exactly one registry and one session, not one per configured prefix.
package protocol

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
	"github.com/nlpresearchai/dynamicmcp/pkg/metrics"

	"github.com/nlpresearchai/dynamicmcp/internal/registry"
	"github.com/nlpresearchai/dynamicmcp/internal/session"
)

// Engine dispatches JSON-RPC requests against a Registry, enforcing the
// initialize-before-operate gate via a Session.
type Engine struct {
	logger     *zap.Logger
	registry   *registry.Registry
	session    *session.Session
	serverInfo mcp.ImplementationSchema
	metrics    *metrics.Metrics
}

// New builds an Engine reporting the given server name/version in
// initialize responses.
func New(logger *zap.Logger, reg *registry.Registry, serverInfo mcp.ImplementationSchema, m *metrics.Metrics) *Engine {
	return &Engine{
		logger:     logger,
		registry:   reg,
		session:    session.New(),
		serverInfo: serverInfo,
		metrics:    m,
	}
}

// Registry exposes the engine's registry so callers (e.g. the dynamic
// layer at start-up) can populate it before serving traffic.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// rpcErrorResponse renders one of pkg/errors' typed RPCError constructors
// as a wire-level error response, so handlers never hardcode a code.
func rpcErrorResponse(id any, err *mcperrors.RPCError) *mcp.JSONRPCErrorResponse {
	return mcp.NewErrorResponse(id, err.Code, err.Message)
}

// Handle dispatches a single parsed request and returns the response
// object to serialise (either *mcp.JSONRPCResponse or
// *mcp.JSONRPCErrorResponse), or nil for a notification that produces
// no response. Dynamic-layer and user handlers are expected to return
// errors rather than panic; an error returned by a tool/resource/prompt
// handler is mapped to a JSON-RPC −32603 internal_error response, the
// exception's message carried in error.message.
func (e *Engine) Handle(req *mcp.JSONRPCRequest) any {
	e.logger.Debug("dispatching request", zap.String("method", req.Method))

	start := time.Now()
	if e.metrics != nil {
		e.metrics.McpReqStart(req.Method)
		defer e.metrics.McpReqDone(req.Method, start)
	}

	if req.Method != mcp.Initialize && req.Method != mcp.NotificationInitialized && !e.session.Initialized() {
		if req.IsNotification() {
			return nil
		}
		return rpcErrorResponse(req.Id, mcperrors.ErrNotInitialized())
	}

	switch req.Method {
	case mcp.Initialize:
		return e.handleInitialize(req)
	case mcp.NotificationInitialized:
		return nil
	case mcp.Ping:
		return mcp.NewResponse(req.Id, struct{}{})
	case mcp.ToolsList:
		return e.handleToolsList(req)
	case mcp.ToolsCall:
		return e.handleToolsCall(req)
	case mcp.ResourcesList:
		return e.handleResourcesList(req)
	case mcp.ResourcesRead:
		return e.handleResourcesRead(req)
	case mcp.PromptsList:
		return e.handlePromptsList(req)
	case mcp.PromptsGet:
		return e.handlePromptsGet(req)
	default:
		if req.IsNotification() {
			return nil
		}
		return rpcErrorResponse(req.Id, mcperrors.ErrMethodNotFound(req.Method))
	}
}

func (e *Engine) handleInitialize(req *mcp.JSONRPCRequest) any {
	var params mcp.InitializeRequestParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("malformed initialize parameters"))
		}
	}

	e.session.Initialize(params.ClientInfo)
	if info := e.session.ClientInfo(); info != nil {
		e.logger.Info("session initialized",
			zap.String("client", info.Name),
			zap.String("client_version", info.Version),
			zap.String("protocol_version", e.session.ProtocolVersion()))
	}

	caps := mcp.ServerCapabilitiesSchema{}
	if e.registry.ToolCount() > 0 {
		caps.Tools = &mcp.ToolsCapabilitySchema{}
	}
	if e.registry.ResourceCount() > 0 {
		caps.Resources = &mcp.ResourcesCapabilitySchema{}
	}
	if e.registry.PromptCount() > 0 {
		caps.Prompts = &mcp.PromptsCapabilitySchema{}
	}

	result := mcp.InitializedResult{
		ProtocolVersion: mcp.LatestProtocolVersion,
		Capabilities:    caps,
		ServerInfo:      e.serverInfo,
	}
	return mcp.NewResponse(req.Id, result)
}

func (e *Engine) handleToolsList(req *mcp.JSONRPCRequest) any {
	tools := e.registry.Tools()
	out := make([]mcp.ToolSchema, len(tools))
	for i, t := range tools {
		out[i] = mcp.ToolSchema{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return mcp.NewResponse(req.Id, mcp.ListToolsResult{Tools: out})
}

func (e *Engine) handleToolsCall(req *mcp.JSONRPCRequest) any {
	var params mcp.CallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("malformed tool call parameters"))
		}
	}
	if params.Name == "" {
		return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("missing name"))
	}

	tool, ok := e.registry.Tool(params.Name)
	if !ok {
		return rpcErrorResponse(req.Id, mcperrors.ErrMethodNotFound(params.Name))
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	started := time.Now()
	if e.metrics != nil {
		e.metrics.ToolExecStart(tool.Name)
	}
	result, err := tool.Handler(args)
	status := "ok"
	if err != nil {
		status = "error"
	}
	if e.metrics != nil {
		e.metrics.ToolExecDone(tool.Name, started, &status)
	}

	if err != nil {
		return rpcErrorResponse(req.Id, mcperrors.ErrInternal(err.Error()))
	}

	text := mcp.StringifyToolResult(result)
	return mcp.NewResponse(req.Id, mcp.NewCallToolResultText(text))
}

func (e *Engine) handleResourcesList(req *mcp.JSONRPCRequest) any {
	resources := e.registry.Resources()
	out := make([]mcp.ResourceSchema, len(resources))
	for i, r := range resources {
		out[i] = mcp.ResourceSchema{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MimeType}
	}
	return mcp.NewResponse(req.Id, mcp.ListResourcesResult{Resources: out})
}

func (e *Engine) handleResourcesRead(req *mcp.JSONRPCRequest) any {
	var params mcp.ReadResourceParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("malformed resources/read parameters"))
		}
	}
	if params.URI == "" {
		return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("missing uri"))
	}

	res, ok := e.registry.Resource(params.URI)
	if !ok {
		return rpcErrorResponse(req.Id, mcperrors.ErrMethodNotFound(params.URI))
	}

	text, err := res.Reader()
	if err != nil {
		return rpcErrorResponse(req.Id, mcperrors.ErrInternal(err.Error()))
	}

	result := mcp.ReadResourceResult{Contents: []mcp.ResourceContent{{URI: res.URI, MimeType: res.MimeType, Text: text}}}
	return mcp.NewResponse(req.Id, result)
}

func (e *Engine) handlePromptsList(req *mcp.JSONRPCRequest) any {
	prompts := e.registry.Prompts()
	out := make([]mcp.PromptSchema, len(prompts))
	for i, p := range prompts {
		out[i] = mcp.PromptSchema{Name: p.Name, Description: p.Description, Arguments: p.Arguments}
	}
	return mcp.NewResponse(req.Id, mcp.ListPromptsResult{Prompts: out})
}

func (e *Engine) handlePromptsGet(req *mcp.JSONRPCRequest) any {
	var params mcp.GetPromptParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("malformed prompts/get parameters"))
		}
	}
	if params.Name == "" {
		return rpcErrorResponse(req.Id, mcperrors.ErrInvalidParams("missing name"))
	}

	prompt, ok := e.registry.Prompt(params.Name)
	if !ok {
		return rpcErrorResponse(req.Id, mcperrors.ErrMethodNotFound(params.Name))
	}

	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	result, err := prompt.Renderer(args)
	if err != nil {
		return rpcErrorResponse(req.Id, mcperrors.ErrInternal(err.Error()))
	}
	return mcp.NewResponse(req.Id, result)
}
