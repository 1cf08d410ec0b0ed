package transport

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
	"github.com/nlpresearchai/dynamicmcp/pkg/utils"
)

// Stdio spawns a child process and speaks the newline-delimited wire
// format over its standard streams, mirroring the server-side stdio
// transport's framing from the other end. The environment is
// inherited from this process plus whatever extra entries the caller
// supplies, assembled with the same helper the gateway's proxy
// transports use to turn a map into a child's environment list.
type Stdio struct {
	command string
	args    []string
	env     []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	reader *bufio.Reader
}

var _ Interface = (*Stdio)(nil)

// NewStdio builds a Stdio transport for command, invoked with args and
// the given extra environment entries on top of the inherited
// environment. The process is not started until Start.
func NewStdio(command string, env map[string]string, args ...string) *Stdio {
	return &Stdio{command: command, args: args, env: utils.MapToEnvList(env)}
}

// Start forks/execs the child process, inheriting this process's
// environment and appending the transport's configured extra entries.
func (t *Stdio) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := exec.CommandContext(ctx, t.command, t.args...)
	cmd.Env = append(os.Environ(), t.env...)
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", t.command, err)
	}

	t.cmd = cmd
	t.stdin = stdin
	t.reader = bufio.NewReader(stdout)
	return nil
}

// SendRequest writes req as a single line to the child's stdin and
// blocks for a single line back from its stdout. The stdio transport
// is synchronous by design (per the protocol's own single-threaded
// contract): only one request is ever in flight at a time, so no
// request-id matching is required on read.
func (t *Stdio) SendRequest(ctx context.Context, req *mcp.JSONRPCRequest) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	if err := t.writeLine(line); err != nil {
		return nil, err
	}

	resultCh := make(chan []byte, 1)
	errCh := make(chan error, 1)
	go func() {
		l, err := t.reader.ReadBytes('\n')
		if err != nil {
			errCh <- err
			return
		}
		resultCh <- l
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case err := <-errCh:
		return nil, fmt.Errorf("failed to read response: %w", err)
	case l := <-resultCh:
		return l, nil
	}
}

// SendNotification writes notif as a single line with no response read.
func (t *Stdio) SendNotification(_ context.Context, notif *mcp.JSONRPCNotification) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	line, err := json.Marshal(notif)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	return t.writeLine(line)
}

func (t *Stdio) writeLine(line []byte) error {
	if _, err := t.stdin.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write to child stdin: %w", err)
	}
	return nil
}

// Close sends a graceful termination signal to the child, gives it a
// short grace period, then kills and reaps it.
func (t *Stdio) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cmd == nil || t.cmd.Process == nil {
		return nil
	}
	_ = t.stdin.Close()

	done := make(chan error, 1)
	go func() { done <- t.cmd.Wait() }()

	_ = t.cmd.Process.Signal(syscall.SIGTERM)
	select {
	case <-done:
		return nil
	case <-time.After(3 * time.Second):
		_ = t.cmd.Process.Kill()
		<-done
		return nil
	}
}
