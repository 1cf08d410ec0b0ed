package mcp

import (
	"encoding/json"
	"fmt"
)

// envelope is used only to sniff which of method/result/error is present
// before committing to a concrete type.
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	Id      json.RawMessage `json:"id,omitempty"`
	Method  *string         `json:"method,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   json.RawMessage `json:"error,omitempty"`
}

// Decode parses a single JSON-RPC 2.0 object. It returns a *JSONRPCRequest
// for both requests and notifications (Id is nil for the latter); it is
// the only shape the protocol engine needs to consume off either transport.
//
// Decode reports a parse error (unparsable JSON) distinctly from a
// structural violation (valid JSON, wrong shape) so callers can map them
// to -32700 and -32600 respectively.
func Decode(raw []byte) (*JSONRPCRequest, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &ParseError{Err: err}
	}

	present := 0
	if env.Method != nil {
		present++
	}
	if env.Result != nil {
		present++
	}
	if env.Error != nil {
		present++
	}
	if present != 1 {
		return nil, &StructuralError{Reason: "message must carry exactly one of method/result/error"}
	}

	if env.JSONRPC != JSONRPCVersion {
		return nil, &StructuralError{Reason: fmt.Sprintf("unsupported jsonrpc version %q", env.JSONRPC)}
	}

	if env.Method == nil {
		return nil, &StructuralError{Reason: "server only accepts requests and notifications"}
	}

	req := &JSONRPCRequest{
		JSONRPC: env.JSONRPC,
		Method:  *env.Method,
	}
	if len(env.Id) > 0 && string(env.Id) != "null" {
		var id any
		if err := json.Unmarshal(env.Id, &id); err != nil {
			return nil, &StructuralError{Reason: "id must be a string, number, or null"}
		}
		req.Id = id
	}

	var full struct {
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(raw, &full); err == nil {
		req.Params = full.Params
	}

	return req, nil
}

// Encode serialises any of the response/error/notification shapes to its
// compact wire form.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// ParseError wraps a malformed-JSON failure (-32700).
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %v", e.Err) }

// StructuralError wraps a well-formed-JSON-but-wrong-shape failure (-32600).
type StructuralError struct {
	Reason string
}

func (e *StructuralError) Error() string { return e.Reason }
