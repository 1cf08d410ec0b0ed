package dynamic

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseExecutor_SimulatesWithoutDriver(t *testing.T) {
	e := &DatabaseExecutor{}
	result := e.Execute(map[string]any{"query": "SELECT 1", "db_type": "postgresql"}, nil)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "postgresql", result["db_type"])
}

func TestRestAPIExecutor_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bar", r.URL.Query().Get("foo"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	e := &RestAPIExecutor{client: srv.Client()}
	result := e.Execute(map[string]any{
		"method":       "GET",
		"url":          srv.URL,
		"query_params": map[string]any{"foo": "bar"},
	}, nil)

	require.Equal(t, true, result["success"])
	assert.EqualValues(t, 200, result["status_code"])
	data := result["data"].(map[string]any)
	assert.Equal(t, true, data["ok"])
}

func TestRestAPIExecutor_MissingURL(t *testing.T) {
	e := &RestAPIExecutor{client: http.DefaultClient}
	result := e.Execute(map[string]any{}, nil)
	assert.Equal(t, false, result["success"])
}

func TestTerminalExecutor_Success(t *testing.T) {
	e := &TerminalExecutor{}
	result := e.Execute(map[string]any{"command": "echo hi"}, nil)
	assert.Equal(t, true, result["success"])
	assert.Equal(t, "hi\n", result["stdout"])
}

func TestTerminalExecutor_NonZeroExit(t *testing.T) {
	e := &TerminalExecutor{}
	result := e.Execute(map[string]any{"command": "exit 3"}, nil)
	assert.Equal(t, false, result["success"])
	assert.EqualValues(t, 3, result["returncode"])
}

func TestFileOperationExecutor_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	e := &FileOperationExecutor{}

	writeResult := e.Execute(map[string]any{"action": "write"}, map[string]any{
		"file_path": path,
		"content":   "hello",
	})
	require.Equal(t, true, writeResult["success"])

	readResult := e.Execute(map[string]any{"action": "read"}, map[string]any{"file_path": path})
	require.Equal(t, true, readResult["success"])
	assert.Equal(t, "hello", readResult["content"])

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestFileOperationExecutor_DeleteMissingFileFails(t *testing.T) {
	e := &FileOperationExecutor{}
	result := e.Execute(map[string]any{"action": "delete"}, map[string]any{
		"file_path": filepath.Join(t.TempDir(), "missing.txt"),
	})
	assert.Equal(t, false, result["success"])
}

func TestDataProcessingExecutor_JSONParser(t *testing.T) {
	e := &DataProcessingExecutor{}
	result := e.Execute(map[string]any{"processor": "json_parser"}, map[string]any{
		"json_string": `{"a": 1}`,
	})
	require.Equal(t, true, result["success"])
	data := result["data"].(map[string]any)
	assert.EqualValues(t, 1, data["a"])
}

func TestDataProcessingExecutor_JSONParser_InvalidInput(t *testing.T) {
	e := &DataProcessingExecutor{}
	result := e.Execute(map[string]any{"processor": "json_parser"}, map[string]any{
		"json_string": `not json`,
	})
	assert.Equal(t, false, result["success"])
}

func TestDataProcessingExecutor_CSVTransformer(t *testing.T) {
	e := &DataProcessingExecutor{}
	result := e.Execute(map[string]any{"processor": "csv_transformer"}, map[string]any{
		"csv_data": "a,b\n1,2",
	})
	require.Equal(t, true, result["success"])
	assert.EqualValues(t, 2, result["row_count"])
}
