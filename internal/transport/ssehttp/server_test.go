package ssehttp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nlpresearchai/dynamicmcp/internal/protocol"
	"github.com/nlpresearchai/dynamicmcp/internal/registry"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
	"github.com/nlpresearchai/dynamicmcp/pkg/metrics"
)

func newTestServer() *Server {
	reg := registry.New()
	engine := protocol.New(zap.NewNop(), reg, mcp.ImplementationSchema{Name: "test", Version: "0"}, nil)
	return New(engine, zap.NewNop(), nil)
}

func TestHandleHealth_ExposesPrometheusMetrics(t *testing.T) {
	reg := registry.New()
	engine := protocol.New(zap.NewNop(), reg, mcp.ImplementationSchema{Name: "test", Version: "0"}, nil)
	s := New(engine, zap.NewNop(), metrics.New(metrics.DefaultConfig()))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dynamicmcp_http_requests_total")
}

func TestHandleSSE_RejectsWrongAcceptHeader(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Accept", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
}

func TestHandleSSE_EmitsEndpointHello(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line1, _ := reader.ReadString('\n')
	line2, _ := reader.ReadString('\n')
	assert.Equal(t, "event: endpoint\n", line1)
	assert.Equal(t, "data: /message\n", line2)
}

func TestHandleMessage_DecodesAndDispatches(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`
	resp, err := http.Post(srv.URL+"/message", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestHandleMessage_MalformedJSONMapsToParseError(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/message", "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()

	var errResp mcp.JSONRPCErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, mcp.ErrorCodeParseError, errResp.Error.Code)
}

func TestHandleMessage_StructuralErrorMapsToInvalidRequest(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	body := `{"jsonrpc":"2.0","id":1,"method":"ping","result":{}}`
	resp, err := http.Post(srv.URL+"/message", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var errResp mcp.JSONRPCErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, mcp.ErrorCodeInvalidRequest, errResp.Error.Code)
}

func TestHandleHealth_ReturnsOK(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestPreflight_AllowsExpectedHeaders(t *testing.T) {
	s := newTestServer()
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/message", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "POST, GET, OPTIONS", resp.Header.Get("Access-Control-Allow-Methods"))
}

func TestConnectionCap_Returns503WhenFull(t *testing.T) {
	s := newTestServer()
	for i := 0; i < maxConnections; i++ {
		s.streams[string(rune('a'+i))] = newStream(string(rune('a' + i)))
	}

	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestStream_WaitBatch_DeliversEnqueuedMessage(t *testing.T) {
	st := newStream("s1")
	defer st.close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		st.enqueue([]byte(`{"ok":true}`))
	}()

	batch, active := st.waitBatch()
	require.True(t, active)
	require.Len(t, batch, 1)
	assert.Equal(t, `{"ok":true}`, string(batch[0]))
}

func TestStream_WaitBatch_ReturnsEmptyBatchOnKeepaliveTick(t *testing.T) {
	st := newStream("s1")
	defer st.close()

	go func() {
		time.Sleep(10 * time.Millisecond)
		st.mu.Lock()
		st.tickGen++
		st.cond.Broadcast()
		st.mu.Unlock()
	}()

	batch, active := st.waitBatch()
	require.True(t, active)
	assert.Len(t, batch, 0)
}

func TestStream_Close_UnblocksWaiter(t *testing.T) {
	st := newStream("s1")
	done := make(chan bool, 1)
	go func() {
		_, active := st.waitBatch()
		done <- active
	}()
	time.Sleep(10 * time.Millisecond)
	st.close()
	select {
	case active := <-done:
		assert.False(t, active)
	case <-time.After(time.Second):
		t.Fatal("waitBatch did not unblock after close")
	}
}
