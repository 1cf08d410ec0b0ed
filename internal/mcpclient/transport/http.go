package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// httpClientTimeout bounds every request this transport issues, per
// the client's 10-second total-request budget.
const httpClientTimeout = 10 * time.Second

// HTTP is the client-side half of the HTTP+SSE transport. It never
// opens the GET event stream itself — every call is a POST of the
// JSON-RPC object to "<base>/message", the response body is the
// JSON-RPC response. This follows the reference client's own
// shortcut of hard-coding /message rather than reading the server's
// "endpoint" SSE hello event (see DESIGN.md).
type HTTP struct {
	baseURL string
	client  *http.Client
}

var _ Interface = (*HTTP)(nil)

// NewHTTP builds an HTTP+SSE client transport against baseURL.
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: httpClientTimeout},
	}
}

// Start validates the configured base URL is non-empty. There is no
// connection to open ahead of time — each call is a standalone POST.
func (t *HTTP) Start(_ context.Context) error {
	if t.baseURL == "" {
		return fmt.Errorf("base URL is empty")
	}
	return nil
}

func (t *HTTP) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/message", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// SendRequest POSTs req to "<base>/message" and returns the raw
// response body.
func (t *HTTP) SendRequest(ctx context.Context, req *mcp.JSONRPCRequest) ([]byte, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return t.post(ctx, body)
}

// SendNotification POSTs notif to "<base>/message" and discards the
// body (a notification never carries a meaningful response).
func (t *HTTP) SendNotification(ctx context.Context, notif *mcp.JSONRPCNotification) error {
	body, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	_, err = t.post(ctx, body)
	return err
}

// Close releases the transport's idle HTTP connections.
func (t *HTTP) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
