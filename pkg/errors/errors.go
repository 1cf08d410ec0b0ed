// Package errors provides typed constructors for the six JSON-RPC error
// kinds the protocol engine reports, so call sites never hardcode a
// magic error code.
package errors

import (
	"fmt"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// RPCError is a JSON-RPC error carrying the code the wire codec expects
// alongside a human-readable message.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s (code %d)", e.Message, e.Code)
}

// ErrParse is returned when a message cannot be parsed as JSON at all.
func ErrParse(detail string) *RPCError {
	return &RPCError{Code: mcp.ErrorCodeParseError, Message: "Parse error: " + detail}
}

// ErrInvalidRequest is returned when a message is valid JSON but does
// not conform to the JSON-RPC envelope.
func ErrInvalidRequest(detail string) *RPCError {
	return &RPCError{Code: mcp.ErrorCodeInvalidRequest, Message: "Invalid request: " + detail}
}

// ErrMethodNotFound is returned for an unrecognised method, and also
// used for unknown tool/resource/prompt names per the Open Question
// resolution recorded in DESIGN.md.
func ErrMethodNotFound(method string) *RPCError {
	return &RPCError{Code: mcp.ErrorCodeMethodNotFound, Message: "Method not found: " + method}
}

// ErrInvalidParams is returned when required params are missing or
// malformed (e.g. a tools/call without a name, a resources/read without
// a uri).
func ErrInvalidParams(detail string) *RPCError {
	return &RPCError{Code: mcp.ErrorCodeInvalidParams, Message: "Invalid params: " + detail}
}

// ErrInternal wraps an error returned by a handler as an internal
// error, carrying detail verbatim as the message. The session remains
// usable afterwards.
func ErrInternal(detail string) *RPCError {
	return &RPCError{Code: mcp.ErrorCodeInternalError, Message: detail}
}

// ErrNotInitialized is returned for any non-initialize request received
// before the session completes initialize.
func ErrNotInitialized() *RPCError {
	return &RPCError{Code: mcp.ErrorCodeNotInitialized, Message: "Server not initialized"}
}

// ConfigError is a start-up-time configuration failure. It is not a
// JSON-RPC error — it aborts process start with exit code 1, per the
// CLI contract.
type ConfigError struct {
	Path   string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Path == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// ErrConfig builds a ConfigError naming the offending path.
func ErrConfig(path, detail string) *ConfigError {
	return &ConfigError{Path: path, Detail: detail}
}

// ErrDuplicateToolName is returned by the dynamic config loader when
// two tasks or workflows synthesise the same tool name.
func ErrDuplicateToolName(name string) error {
	return fmt.Errorf("duplicate tool name: %s", name)
}

// ErrToolNotFound is returned when a synthesised tool or workflow
// references a task/workflow name that was never registered.
func ErrToolNotFound(name string) error {
	return fmt.Errorf("tool not found: %s", name)
}

// ErrWorkflowCycle is returned when a workflow's step dependency graph
// contains a cycle, per the Open Question resolution to detect and fail
// rather than leave behaviour undefined.
func ErrWorkflowCycle(workflow string) error {
	return fmt.Errorf("workflow cycle detected: %s", workflow)
}

// ErrMissingParameter is returned by parameter resolution when a
// required parameter has neither a supplied value nor a default.
func ErrMissingParameter(name string) error {
	return fmt.Errorf("missing_parameter: %s", name)
}

// ErrInvalidParameterType is returned by parameter resolution when a
// supplied argument's JSON type doesn't match the declared type.
func ErrInvalidParameterType(name, want, got string) error {
	return fmt.Errorf("invalid_parameter_type: %s expected %s, got %s", name, want, got)
}

// TransportError wraps an I/O failure on the client side: a broken
// pipe, a reset connection, a process that exited before answering.
type TransportError struct {
	Detail string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport_error: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("transport_error: %s", e.Detail)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrTransport builds a TransportError.
func ErrTransport(detail string, err error) error {
	return &TransportError{Detail: detail, Err: err}
}

// ProtocolError wraps a response that could not be parsed as the
// expected shape.
type ProtocolError struct {
	Detail string
}

func (e *ProtocolError) Error() string { return "protocol_error: " + e.Detail }

// ErrProtocol builds a ProtocolError.
func ErrProtocol(detail string) error {
	return &ProtocolError{Detail: detail}
}

// RemoteError wraps a JSON-RPC error object the server sent back,
// forwarding its code and message verbatim.
type RemoteError struct {
	Code    int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote_error: %s (code %d)", e.Message, e.Code)
}

// ErrRemote builds a RemoteError from a wire-level code/message pair.
func ErrRemote(code int, message string) error {
	return &RemoteError{Code: code, Message: message}
}
