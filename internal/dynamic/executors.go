package dynamic

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/nlpresearchai/dynamicmcp/pkg/utils"
)

// Executor is the external-collaborator interface the spec names:
// given an (already placeholder-substituted) executor config and the
// resolved call parameters, produce a JSON-compatible result.
// Implementations must never panic across this boundary — failures
// become {"success": false, "error": "..."} rather than an error
// return, matching the spec's "executors MUST NOT throw" contract.
type Executor interface {
	Execute(config map[string]any, params map[string]any) map[string]any
}

// NewExecutorRegistry builds the five-variant dispatch table, built
// once at start-up per spec.md's DESIGN NOTES §9. db may be nil — the
// database executor then falls back to a simulated response, the same
// "mock unless a real driver is wired" behaviour the original C++
// implementation documents for its own DatabaseExecutor.
func NewExecutorRegistry(db *sql.DB) map[string]Executor {
	return map[string]Executor{
		"database":        &DatabaseExecutor{db: db},
		"rest_api":        &RestAPIExecutor{client: &http.Client{Timeout: 30 * time.Second}},
		"terminal":        &TerminalExecutor{},
		"file_operation":  &FileOperationExecutor{},
		"data_processing": &DataProcessingExecutor{},
	}
}

func errorResult(format string, args ...any) map[string]any {
	return map[string]any{"success": false, "error": fmt.Sprintf(format, args...)}
}

// runSafely invokes fn and converts a panic into an error result, so a
// misbehaving executor can never take the whole process down.
func runSafely(fn func() map[string]any) (result map[string]any) {
	defer func() {
		if r := recover(); r != nil {
			result = errorResult("executor panic: %v", r)
		}
	}()
	return fn()
}

// ==================== DATABASE EXECUTOR ====================

// DatabaseExecutor executes task_config["query"] against db, the
// way the spec's original implementation wanted: "any database/sql
// driver already registered by the host binary". This module never
// imports a driver itself, so db is nil unless an embedder wires one
// in (see DESIGN.md); without one the executor reports a simulated
// result, exactly like the reference implementation's own
// mock-unless-real-driver-configured note.
type DatabaseExecutor struct {
	db *sql.DB
}

func (e *DatabaseExecutor) Execute(config map[string]any, params map[string]any) map[string]any {
	return runSafely(func() map[string]any {
		dbType := utils.GetString(config, "db_type", "postgresql")
		query := utils.GetString(config, "query", "")

		if e.db == nil {
			return map[string]any{
				"success": true,
				"message": "Database operation simulated (would execute: " + query + ")",
				"db_type": dbType,
				"query":   query,
				"note":    "wire a database/sql driver into NewExecutorRegistry for real operations",
			}
		}

		rows, err := e.db.Query(query)
		if err != nil {
			return errorResult("database error: %v", err)
		}
		defer rows.Close()

		cols, err := rows.Columns()
		if err != nil {
			return errorResult("database error: %v", err)
		}

		var records []map[string]any
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return errorResult("database error: %v", err)
			}
			record := make(map[string]any, len(cols))
			for i, col := range cols {
				record[col] = values[i]
			}
			records = append(records, record)
		}

		return map[string]any{
			"success": true,
			"rows":    records,
			"db_type": dbType,
			"query":   query,
		}
	})
}

// ==================== REST API EXECUTOR ====================

// RestAPIExecutor issues a single HTTP request described by
// task_config's method/url/headers/query_params/body fields.
type RestAPIExecutor struct {
	client *http.Client
}

func (e *RestAPIExecutor) Execute(config map[string]any, _ map[string]any) map[string]any {
	return runSafely(func() map[string]any {
		method := strings.ToUpper(utils.GetString(config, "method", "GET"))
		rawURL := utils.GetString(config, "url", "")
		if rawURL == "" {
			return errorResult("rest_api error: url is required")
		}

		if qp, ok := config["query_params"].(map[string]any); ok && len(qp) > 0 {
			u, err := url.Parse(rawURL)
			if err != nil {
				return errorResult("rest_api error: invalid url: %v", err)
			}
			q := u.Query()
			for k, v := range qp {
				q.Set(k, stringify(v))
			}
			u.RawQuery = q.Encode()
			rawURL = u.String()
		}

		var bodyReader io.Reader
		if body, ok := config["body"]; ok && method != http.MethodGet {
			b, err := json.Marshal(body)
			if err != nil {
				return errorResult("rest_api error: invalid body: %v", err)
			}
			bodyReader = bytes.NewReader(b)
		}

		req, err := http.NewRequest(method, rawURL, bodyReader)
		if err != nil {
			return errorResult("rest_api error: %v", err)
		}
		if headers, ok := config["headers"].(map[string]any); ok {
			for k, v := range headers {
				req.Header.Set(k, stringify(v))
			}
		}

		resp, err := e.client.Do(req)
		if err != nil {
			return errorResult("rest_api error: %v", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return errorResult("rest_api error: %v", err)
		}

		var parsed any
		if err := json.Unmarshal(respBody, &parsed); err != nil {
			parsed = string(respBody)
		}

		return map[string]any{
			"success":     resp.StatusCode < 400,
			"status_code": resp.StatusCode,
			"data":        parsed,
			"method":      method,
			"url":         rawURL,
		}
	})
}

// ==================== TERMINAL EXECUTOR ====================

// TerminalExecutor runs task_config["command"] through a shell with a
// bounded timeout.
type TerminalExecutor struct{}

func (e *TerminalExecutor) Execute(config map[string]any, _ map[string]any) map[string]any {
	return runSafely(func() map[string]any {
		command := utils.GetString(config, "command", "")
		if command == "" {
			return errorResult("terminal error: command is required")
		}
		timeoutSeconds := 30
		if t, ok := config["timeout"].(float64); ok && t > 0 {
			timeoutSeconds = int(t)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
		defer cancel()

		cmd := exec.CommandContext(ctx, "sh", "-c", command)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		err := cmd.Run()
		returnCode := 0
		if err != nil {
			if exitErr, ok := err.(*exec.ExitError); ok {
				returnCode = exitErr.ExitCode()
			} else {
				return errorResult("terminal error: %v", err)
			}
		}

		return map[string]any{
			"success":    returnCode == 0,
			"returncode": returnCode,
			"stdout":     stdout.String(),
			"stderr":     stderr.String(),
			"command":    command,
		}
	})
}

// ==================== FILE OPERATION EXECUTOR ====================

// FileOperationExecutor reads/writes/appends/deletes a file named by
// params["file_path"], the action selected by task_config["action"].
type FileOperationExecutor struct{}

func (e *FileOperationExecutor) Execute(config map[string]any, params map[string]any) map[string]any {
	return runSafely(func() map[string]any {
		action := utils.GetString(config, "action", "read")
		createDirs := utils.GetBool(config, "create_dirs", false)

		filePath, ok := params["file_path"].(string)
		if !ok || filePath == "" {
			return errorResult("file_operation error: file_path is required")
		}

		switch action {
		case "read":
			content, err := os.ReadFile(filePath)
			if err != nil {
				return errorResult("file_operation error: %v", err)
			}
			return map[string]any{
				"success":   true,
				"content":   string(content),
				"file_path": filePath,
				"size":      len(content),
			}

		case "write", "append":
			content, ok := params["content"].(string)
			if !ok {
				return errorResult("file_operation error: content is required for %s operation", action)
			}
			if createDirs {
				_ = os.MkdirAll(dirOf(filePath), 0o755)
			}
			flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
			if action == "append" {
				flags = os.O_WRONLY | os.O_CREATE | os.O_APPEND
			}
			f, err := os.OpenFile(filePath, flags, 0o644)
			if err != nil {
				return errorResult("file_operation error: %v", err)
			}
			defer f.Close()
			if _, err := f.WriteString(content); err != nil {
				return errorResult("file_operation error: %v", err)
			}
			return map[string]any{
				"success":   true,
				"message":   fmt.Sprintf("wrote %d characters to %s", len(content), filePath),
				"file_path": filePath,
			}

		case "delete":
			if err := os.Remove(filePath); err != nil {
				return errorResult("file_operation error: %v", err)
			}
			return map[string]any{"success": true, "message": "deleted " + filePath, "file_path": filePath}

		default:
			return errorResult("file_operation error: unknown action %q", action)
		}
	})
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "."
	}
	return path[:i]
}

// ==================== DATA PROCESSING EXECUTOR ====================

// DataProcessingExecutor transforms JSON or CSV payloads supplied as
// call parameters, the processor selected by task_config["processor"].
type DataProcessingExecutor struct{}

func (e *DataProcessingExecutor) Execute(config map[string]any, params map[string]any) map[string]any {
	return runSafely(func() map[string]any {
		processor := utils.GetString(config, "processor", "json_parser")

		switch processor {
		case "json_parser":
			jsonString, ok := params["json_string"].(string)
			if !ok {
				return errorResult("data_processing error: json_string is required")
			}
			var parsed any
			if err := json.Unmarshal([]byte(jsonString), &parsed); err != nil {
				return errorResult("data_processing error: JSON parse error: %v", err)
			}
			return map[string]any{"success": true, "data": parsed, "processor": processor}

		case "csv_transformer":
			csvData, ok := params["csv_data"].(string)
			if !ok {
				return errorResult("data_processing error: csv_data is required")
			}
			delimiter := utils.GetString(config, "delimiter", ",")
			if delimiter == "" {
				delimiter = ","
			}
			var rows [][]string
			for _, line := range strings.Split(csvData, "\n") {
				if line == "" {
					continue
				}
				rows = append(rows, strings.Split(line, delimiter))
			}
			return map[string]any{
				"success":   true,
				"rows":      rows,
				"row_count": len(rows),
				"processor": processor,
			}

		default:
			return errorResult("data_processing error: unknown processor %q", processor)
		}
	})
}
