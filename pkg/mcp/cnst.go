package mcp

// Protocol versions supported on the wire.
const (
	ProtocolVersion20241105 = "2024-11-05"
	LatestProtocolVersion   = ProtocolVersion20241105
	JSONRPCVersion          = "2.0"
)

// Methods understood by the protocol engine.
const (
	Initialize              = "initialize"
	NotificationInitialized = "notifications/initialized"
	Ping                    = "ping"
	ToolsList               = "tools/list"
	ToolsCall               = "tools/call"
	ResourcesList           = "resources/list"
	ResourcesRead           = "resources/read"
	PromptsList             = "prompts/list"
	PromptsGet              = "prompts/get"
)

// Accepted is the body the HTTP+SSE transport returns (with status 202)
// for a posted message the engine produces no response to, i.e. a
// notification.
const Accepted = "Accepted"

// Standard JSON-RPC error codes, plus the one MCP-specific extension
// used by this module (not-initialized).
const (
	ErrorCodeParseError     = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
	ErrorCodeNotInitialized = -32002
)

// HeaderMcpSessionID is the header the HTTP+SSE transport uses to
// surface (or accept) an opaque session identifier. It is never part
// of a JSON-RPC payload.
const HeaderMcpSessionID = "Mcp-Session-Id"
