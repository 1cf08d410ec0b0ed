package stdio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlpresearchai/dynamicmcp/internal/protocol"
	"github.com/nlpresearchai/dynamicmcp/internal/registry"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

func newTestEngine() *protocol.Engine {
	reg := registry.New()
	return protocol.New(zap.NewNop(), reg, mcp.ImplementationSchema{Name: "test", Version: "0"}, nil)
}

func TestTransport_Run_EchoesIdAndEndsOnEOF(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":7,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	tr := New(newTestEngine(), zap.NewNop(), in, &out)
	err := tr.Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var resp mcp.JSONRPCErrorResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.EqualValues(t, 7, resp.Id)
	assert.Equal(t, mcp.ErrorCodeNotInitialized, resp.Error.Code)
}

func TestTransport_Run_ParseErrorContinuesLoop(t *testing.T) {
	in := strings.NewReader("not json\n" + `{"jsonrpc":"2.0","id":1,"method":"ping"}` + "\n")
	var out bytes.Buffer

	tr := New(newTestEngine(), zap.NewNop(), in, &out)
	err := tr.Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var parseErrResp mcp.JSONRPCErrorResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &parseErrResp))
	assert.Nil(t, parseErrResp.Id)
	assert.Equal(t, mcp.ErrorCodeParseError, parseErrResp.Error.Code)
}

func TestTransport_Run_StructuralErrorMapsToInvalidRequest(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"1.0","id":1,"method":"ping"}` + "\n")
	var out bytes.Buffer

	tr := New(newTestEngine(), zap.NewNop(), in, &out)
	err := tr.Run()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1)

	var resp mcp.JSONRPCErrorResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &resp))
	assert.Equal(t, mcp.ErrorCodeInvalidRequest, resp.Error.Code)
}

func TestTransport_Run_NotificationProducesNoResponse(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}` + "\n")
	var out bytes.Buffer

	tr := New(newTestEngine(), zap.NewNop(), in, &out)
	err := tr.Run()
	require.NoError(t, err)
	assert.Empty(t, out.String())
}
