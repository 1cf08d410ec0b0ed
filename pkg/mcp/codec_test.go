package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_Request(t *testing.T) {
	req, err := Decode([]byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05"}}`))
	require.NoError(t, err)
	assert.Equal(t, "initialize", req.Method)
	assert.EqualValues(t, 1, req.Id)
}

func TestDecode_Notification(t *testing.T) {
	req, err := Decode([]byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
	require.NoError(t, err)
	assert.True(t, req.IsNotification())
}

func TestDecode_EchoedIDPreservesType(t *testing.T) {
	req, err := Decode([]byte(`{"jsonrpc":"2.0","id":"abc","method":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, "abc", req.Id)
}

func TestDecode_MalformedJSON(t *testing.T) {
	_, err := Decode([]byte(`{not json`))
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestDecode_WrongVersion(t *testing.T) {
	_, err := Decode([]byte(`{"jsonrpc":"1.0","id":1,"method":"ping"}`))
	require.Error(t, err)
	var se *StructuralError
	assert.ErrorAs(t, err, &se)
}

func TestDecode_ResultIsNotARequest(t *testing.T) {
	_, err := Decode([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	require.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	resp := NewResponse(1, ListToolsResult{Tools: []ToolSchema{{Name: "add"}}})
	b, err := Encode(resp)
	require.NoError(t, err)

	var decoded JSONRPCResponse
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.EqualValues(t, 1, decoded.Id)
}

func TestStringifyToolResult(t *testing.T) {
	assert.Equal(t, "hello", StringifyToolResult("hello"))
	assert.Equal(t, "8", StringifyToolResult(8))
	assert.JSONEq(t, `{"a":1}`, StringifyToolResult(map[string]any{"a": 1}))
}
