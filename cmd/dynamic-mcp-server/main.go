// Command dynamic-mcp-server loads a declarative task/workflow
// configuration file and serves the resulting tools over either the
// stdio or the HTTP+SSE transport.
//
// Grounded on the teacher's cmd/mcp-gateway/main.go (flag parsing,
// logger bring-up, graceful shutdown on SIGINT/SIGTERM) and on
// original_source/src/dynamic_mcp_main.cpp for the CLI's flag surface
// and exit-code contract.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/logger"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"
	"github.com/nlpresearchai/dynamicmcp/pkg/metrics"

	"github.com/nlpresearchai/dynamicmcp/internal/dynamic"
	"github.com/nlpresearchai/dynamicmcp/internal/protocol"
	"github.com/nlpresearchai/dynamicmcp/internal/transport/ssehttp"
	"github.com/nlpresearchai/dynamicmcp/internal/transport/stdio"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout))
}

func run(args []string, in *os.File, out *os.File) int {
	fs := flag.NewFlagSet("dynamic-mcp-server", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the task/workflow configuration file (required)")
	mode := fs.String("mode", "stdio", "transport to serve: stdio or sse")
	port := fs.Int("port", 8080, "port to listen on in sse mode")
	host := fs.String("host", "0.0.0.0", "host to bind in sse mode")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dynamic-mcp-server --config FILE [--mode stdio|sse] [--port N] [--host H]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: --config is required")
		fs.Usage()
		return 1
	}
	if *mode != "stdio" && *mode != "sse" {
		fmt.Fprintf(os.Stderr, "Error: --mode must be stdio or sse, got %q\n", *mode)
		return 1
	}

	log, err := logger.New(logger.Default())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: failed to initialize logger:", err)
		return 1
	}
	defer log.Sync()

	// db stays nil: this binary never registers a database/sql driver
	// of its own, so the "database" executor falls back to its
	// simulated response unless an embedder links a driver in and
	// passes a non-nil *sql.DB here.
	var db *sql.DB
	executors := dynamic.NewExecutorRegistry(db)

	serverInfo, reg, err := dynamic.Load(*configPath, executors)
	if err != nil {
		var cfgErr *mcperrors.ConfigError
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, "Configuration error:", cfgErr)
		} else {
			fmt.Fprintln(os.Stderr, "Configuration error:", err)
		}
		return 1
	}
	log.Info("loaded configuration",
		zap.String("path", *configPath),
		zap.Int("tasks_and_workflows", reg.ToolCount()))

	m := metrics.New(metrics.DefaultConfig())
	engine := protocol.New(log, reg, mcp.ImplementationSchema{
		Name:    serverInfo.Name,
		Version: serverInfo.Version,
	}, m)

	switch *mode {
	case "stdio":
		return runStdio(engine, log, in, out)
	default:
		return runSSE(engine, log, m, *host, *port)
	}
}

func runStdio(engine *protocol.Engine, log *zap.Logger, in *os.File, out *os.File) int {
	t := stdio.New(engine, log, in, out)
	if err := t.Run(); err != nil {
		log.Error("stdio transport terminated", zap.Error(err))
		return 1
	}
	return 0
}

func runSSE(engine *protocol.Engine, log *zap.Logger, m *metrics.Metrics, host string, port int) int {
	srv := ssehttp.New(engine, log, m)
	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving HTTP+SSE transport", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Error("HTTP+SSE transport failed", zap.Error(err))
		return 1
	case <-quit:
		log.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
		return 1
	}
	return 0
}
