package dynamic

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `{}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "DynamicTaskServer", cfg.ServerInfo.Name)
	assert.Equal(t, "1.0.0", cfg.ServerInfo.Version)
	assert.Empty(t, cfg.Tasks)
	assert.Empty(t, cfg.Workflows)
}

func TestLoadConfig_TaskParameterDefaults(t *testing.T) {
	path := writeConfig(t, `{
		"tasks": [
			{
				"name": "echo",
				"operation_type": "data_processing",
				"executor_config": {"processor": "json_parser"},
				"parameters": [
					{"name": "json_string"}
				]
			}
		]
	}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Tasks, 1)
	task := cfg.Tasks[0]
	assert.Equal(t, "data_processing", task.OperationType)
	require.Len(t, task.Parameters, 1)
	p := task.Parameters[0]
	assert.Equal(t, "string", p.Type)
	assert.True(t, p.Required)
	assert.False(t, p.HasDefault)
}

func TestLoadConfig_MissingRequiredFieldFails(t *testing.T) {
	path := writeConfig(t, `{"tasks": [{"operation_type": "terminal"}]}`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tasks[0].name")
}

func TestLoadConfig_WorkflowSteps(t *testing.T) {
	path := writeConfig(t, `{
		"workflows": [
			{
				"name": "wf",
				"steps": [
					{"name": "s1", "task": "echo"},
					{"name": "s2", "task": "echo", "dependencies": ["s1"],
					 "input_mapping": {"json_string": "{s1_out}"},
					 "output_mapping": {"data": "s1_out"}}
				]
			}
		]
	}`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Len(t, cfg.Workflows, 1)
	wf := cfg.Workflows[0]
	require.Len(t, wf.Steps, 2)
	assert.Equal(t, []string{"s1"}, wf.Steps[1].Dependencies)
	assert.Equal(t, "{s1_out}", wf.Steps[1].InputMapping["json_string"])
	assert.Equal(t, "s1_out", wf.Steps[1].OutputMapping["data"])
}

func TestLoadConfig_UnreadableFileFails(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
