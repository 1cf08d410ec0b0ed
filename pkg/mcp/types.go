package mcp

import "encoding/json"

type (
	// JSONRPCRequest is a JSON-RPC request or notification received off
	// the wire. Notifications are requests with a nil Id.
	JSONRPCRequest struct {
		JSONRPC string          `json:"jsonrpc"`
		Id      any             `json:"id,omitempty"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}

	// JSONRPCResponse is a successful JSON-RPC response.
	JSONRPCResponse struct {
		JSONRPC string `json:"jsonrpc"`
		Id      any    `json:"id"`
		Result  any    `json:"result"`
	}

	// JSONRPCError carries the code/message/data triple the spec requires
	// for every failed call.
	JSONRPCError struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Data    any    `json:"data,omitempty"`
	}

	// JSONRPCErrorResponse is a failed JSON-RPC response.
	JSONRPCErrorResponse struct {
		JSONRPC string       `json:"jsonrpc"`
		Id      any          `json:"id"`
		Error   JSONRPCError `json:"error"`
	}

	// JSONRPCNotification is a one-way message, never answered.
	JSONRPCNotification struct {
		JSONRPC string          `json:"jsonrpc"`
		Method  string          `json:"method"`
		Params  json.RawMessage `json:"params,omitempty"`
	}
)

// NewErrorResponse builds a JSONRPCErrorResponse for the given id/code/message.
func NewErrorResponse(id any, code int, message string) *JSONRPCErrorResponse {
	return &JSONRPCErrorResponse{
		JSONRPC: JSONRPCVersion,
		Id:      id,
		Error: JSONRPCError{
			Code:    code,
			Message: message,
		},
	}
}

// NewResponse builds a successful JSONRPCResponse for the given id/result.
func NewResponse(id any, result any) *JSONRPCResponse {
	return &JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		Id:      id,
		Result:  result,
	}
}

// IsNotification reports whether a parsed request carried no id, and is
// therefore a fire-and-forget notification.
func (r *JSONRPCRequest) IsNotification() bool {
	return r.Id == nil
}
