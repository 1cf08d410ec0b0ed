// Package stdio implements the server-side stdio transport: a
// single-threaded, synchronous read-line/dispatch/write-line loop over
// the process's standard streams.
//
// Grounded on the original's MCPServer::run_stdio_loop (read_stdio_message /
// write_stdio_message / run_stdio_loop in mcp_server.cpp), reworked into
// Go's bufio idiom the way the teacher reads config/lines elsewhere with
// bufio.Scanner.
package stdio

import (
	"bufio"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/nlpresearchai/dynamicmcp/internal/protocol"
	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
)

// maxLineSize bounds a single incoming line. The spec requires at
// least 1 MiB; this transport allows a generous 8 MiB so a large tool
// argument payload never trips the scanner's token-too-long error.
const maxLineSize = 8 * 1024 * 1024

// Transport runs the stdio read/dispatch/write loop against an Engine.
type Transport struct {
	engine *protocol.Engine
	logger *zap.Logger
	in     io.Reader
	out    io.Writer
}

// New builds a stdio Transport reading from in and writing responses
// to out. Diagnostic logging always goes through logger, which callers
// must have configured to write to stderr (or a file), never stdout.
func New(engine *protocol.Engine, logger *zap.Logger, in io.Reader, out io.Writer) *Transport {
	return &Transport{engine: engine, logger: logger, in: in, out: out}
}

// Run processes one JSON-RPC message per line until EOF. A line that
// fails to parse produces an id:null parse-error response and the loop
// continues; only EOF (or a write failure) ends it.
func (t *Transport) Run() error {
	scanner := bufio.NewScanner(t.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	writer := bufio.NewWriter(t.out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		req, err := mcp.Decode(line)
		if err != nil {
			t.logger.Warn("failed to decode stdio message", zap.Error(err))
			if werr := t.writeResponse(writer, decodeErrorResponse(err)); werr != nil {
				return werr
			}
			continue
		}

		resp := t.engine.Handle(req)
		if resp == nil {
			// Notification: no response is written.
			continue
		}
		if err := t.writeResponse(writer, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

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

func (t *Transport) writeResponse(w *bufio.Writer, resp any) error {
	b, err := mcp.Encode(resp)
	if err != nil {
		t.logger.Error("failed to encode response", zap.Error(err))
		return err
	}
	if _, err := w.Write(b); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}
