package ssehttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// decodeErrorResponse maps a mcp.Decode failure to its wire-level error
// response: a *mcp.StructuralError (well-formed JSON, wrong shape) is
// −32600 invalid_request, anything else (malformed JSON) is −32700
// parse_error.
func decodeErrorResponse(err error) *mcp.JSONRPCErrorResponse {
	var structural *mcp.StructuralError
	if errors.As(err, &structural) {
		rpcErr := mcperrors.ErrInvalidRequest(structural.Error())
		return mcp.NewErrorResponse(nil, rpcErr.Code, rpcErr.Message)
	}
	rpcErr := mcperrors.ErrParse(err.Error())
	return mcp.NewErrorResponse(nil, rpcErr.Code, rpcErr.Message)
}

// handleSSE serves GET /: it requires a text/event-stream Accept
// header, admits the connection against the 20-stream cap (sweeping
// dead streams first), emits the one-time "endpoint" hello event, then
// writes every enqueued message and periodic keepalives until the
// client disconnects or the stream goes idle for three keepalive
// intervals.
func (s *Server) handleSSE(c *gin.Context) {
	if !strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		c.Status(http.StatusNotAcceptable)
		return
	}

	s.sweep()
	id := sessionID(c)
	st, ok := s.register(id)
	if !ok {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	defer s.unregister(id)

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if _, err := fmt.Fprint(w, "event: endpoint\ndata: /message\n\n"); err != nil {
		st.close()
		return
	}
	w.Flush()

	go func() {
		<-c.Request.Context().Done()
		st.close()
	}()

	idle := 0
	for {
		batch, active := st.waitBatch()
		if !active {
			return
		}
		if len(batch) == 0 {
			idle++
			if idle >= maxIdleIntervals {
				st.close()
				return
			}
			if _, err := fmt.Fprint(w, ":keepalive\n\n"); err != nil {
				st.close()
				return
			}
			w.Flush()
			continue
		}
		idle = 0
		for _, msg := range batch {
			if _, err := fmt.Fprintf(w, "data: %s\n\n", msg); err != nil {
				s.logger.Warn("failed to write SSE message", zap.Error(err))
				st.close()
				return
			}
		}
		w.Flush()
	}
}

// handleMessage serves POST / and POST /message: it decodes a single
// JSON-RPC request, dispatches it through the engine, fans the result
// out to every active stream, then returns the same JSON as the POST
// response.
func (s *Server) handleMessage(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		rpcErr := mcperrors.ErrParse(err.Error())
		c.JSON(http.StatusOK, mcp.NewErrorResponse(nil, rpcErr.Code, rpcErr.Message))
		return
	}

	req, err := mcp.Decode(body)
	if err != nil {
		c.JSON(http.StatusOK, decodeErrorResponse(err))
		return
	}

	resp := s.engine.Handle(req)
	if resp == nil {
		c.String(http.StatusAccepted, mcp.Accepted)
		return
	}

	data, err := json.Marshal(resp)
	if err != nil {
		rpcErr := mcperrors.ErrInternal("failed to marshal response")
		c.JSON(http.StatusInternalServerError, mcp.NewErrorResponse(req.Id, rpcErr.Code, rpcErr.Message))
		return
	}

	// Fan-out to every active stream must complete before the POST
	// caller sees the response, so a late subscriber never misses a
	// response it could have been observing.
	s.broadcast(data)

	c.Data(http.StatusOK, "application/json", data)
}
