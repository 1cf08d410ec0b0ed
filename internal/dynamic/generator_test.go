package dynamic

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_SynthesisesTaskTool(t *testing.T) {
	path := writeConfig(t, `{
		"tasks": [
			{
				"name": "echo",
				"operation_type": "data_processing",
				"executor_config": {"processor": "json_parser"},
				"parameters": [{"name": "json_string", "type": "string"}]
			}
		]
	}`)

	_, reg, err := Load(path, NewExecutorRegistry(nil))
	require.NoError(t, err)
	require.Equal(t, 1, reg.ToolCount())

	tool, ok := reg.Tool("echo")
	require.True(t, ok)
	assert.Equal(t, []string{"json_string"}, tool.InputSchema.Required)

	args, _ := json.Marshal(map[string]any{"json_string": `{"a":1}`})
	result, err := tool.Handler(args)
	require.NoError(t, err)
	resMap := result.(map[string]any)
	assert.Equal(t, true, resMap["success"])
}

func TestLoad_SynthesisesWorkflowTool(t *testing.T) {
	path := writeConfig(t, `{
		"tasks": [
			{
				"name": "echo",
				"operation_type": "data_processing",
				"executor_config": {"processor": "json_parser"},
				"parameters": [{"name": "json_string", "type": "string"}]
			}
		],
		"workflows": [
			{
				"name": "wf",
				"parameters": [{"name": "json_string", "type": "string"}],
				"steps": [
					{"name": "s1", "task": "echo", "input_mapping": {"json_string": "{json_string}"}},
					{"name": "s2", "task": "echo", "dependencies": ["s1"],
					 "input_mapping": {"json_string": "{json_string}"},
					 "output_mapping": {"data": "s1_out"}}
				]
			}
		]
	}`)

	_, reg, err := Load(path, NewExecutorRegistry(nil))
	require.NoError(t, err)
	require.Equal(t, 2, reg.ToolCount())

	tool, ok := reg.Tool("wf")
	require.True(t, ok)

	args, _ := json.Marshal(map[string]any{"json_string": `{"x":2}`})
	result, err := tool.Handler(args)
	require.NoError(t, err)
	resMap := result.(map[string]any)
	assert.Equal(t, true, resMap["success"])
	assert.Equal(t, 2, resMap["steps_executed"])
}

func TestLoad_UnknownOperationTypeFails(t *testing.T) {
	path := writeConfig(t, `{"tasks": [{"name": "t", "operation_type": "nope"}]}`)
	_, _, err := Load(path, NewExecutorRegistry(nil))
	require.Error(t, err)
}

func TestLoad_DuplicateTaskNameFails(t *testing.T) {
	path := writeConfig(t, `{
		"tasks": [
			{"name": "dup", "operation_type": "data_processing", "executor_config": {"processor": "json_parser"}},
			{"name": "dup", "operation_type": "data_processing", "executor_config": {"processor": "json_parser"}}
		]
	}`)
	_, _, err := Load(path, NewExecutorRegistry(nil))
	require.Error(t, err)
}

func TestLoad_WorkflowNameCollidesWithTaskFails(t *testing.T) {
	path := writeConfig(t, `{
		"tasks": [
			{"name": "dup", "operation_type": "data_processing", "executor_config": {"processor": "json_parser"}}
		],
		"workflows": [
			{"name": "dup", "steps": [{"name": "s1", "task": "dup"}]}
		]
	}`)
	_, _, err := Load(path, NewExecutorRegistry(nil))
	require.Error(t, err)
}

func TestInputSchemaFor_CollapsesNumberTypes(t *testing.T) {
	schema := inputSchemaFor([]TaskParameter{
		{Name: "a", Type: "integer", Required: true},
		{Name: "b", Type: "float", Required: true},
		{Name: "c", Type: "string", Required: false},
		{Name: "d", Type: "string", Required: true, HasDefault: true, Default: "x"},
	})
	assert.Equal(t, "object", schema.Type)
	assert.ElementsMatch(t, []string{"a", "b"}, schema.Required)
	assert.Equal(t, "number", schema.Properties["a"].(map[string]any)["type"])
	assert.Equal(t, "number", schema.Properties["b"].(map[string]any)["type"])
	assert.Equal(t, "string", schema.Properties["c"].(map[string]any)["type"])
}
