package dynamic

import (
	"encoding/json"
	"fmt"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
	"github.com/nlpresearchai/dynamicmcp/pkg/mcp"

	"github.com/nlpresearchai/dynamicmcp/internal/registry"
)

// Load parses the configuration file at path and synthesises one
// registry.Tool per task and per workflow. executors is the five-
// variant dispatch table a task's operation_type resolves into; pass
// the result of NewExecutorRegistry.
func Load(path string, executors map[string]Executor) (ServerInfo, *registry.Registry, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return ServerInfo{}, nil, err
	}

	reg := registry.New()
	seen := make(map[string]bool, len(cfg.Tasks)+len(cfg.Workflows))

	for _, task := range cfg.Tasks {
		if seen[task.Name] {
			return ServerInfo{}, nil, mcperrors.ErrDuplicateToolName(task.Name)
		}
		seen[task.Name] = true

		executor, ok := executors[task.OperationType]
		if !ok {
			return ServerInfo{}, nil, mcperrors.ErrConfig(
				fmt.Sprintf("tasks[%s].operation_type", task.Name),
				"unknown operation_type: "+task.OperationType,
			)
		}
		reg.AddTool(buildTaskTool(task, executor))
	}

	// Workflow handlers resolve the tools they invoke by looking them
	// up in reg at call time, so task and workflow tools can reference
	// each other regardless of declaration order.
	for _, wf := range cfg.Workflows {
		if seen[wf.Name] {
			return ServerInfo{}, nil, mcperrors.ErrDuplicateToolName(wf.Name)
		}
		seen[wf.Name] = true
		reg.AddTool(buildWorkflowTool(wf, reg))
	}

	return cfg.ServerInfo, reg, nil
}

// buildTaskTool synthesises the tool handler described by spec.md
// §4.G "Tool synthesis": resolve parameters, substitute them into a
// copy of the executor config, dispatch to the matching executor.
func buildTaskTool(task TaskConfig, executor Executor) *registry.Tool {
	return &registry.Tool{
		Name:        task.Name,
		Description: task.Description,
		InputSchema: inputSchemaFor(task.Parameters),
		Handler: func(arguments json.RawMessage) (any, error) {
			args, err := decodeArguments(arguments)
			if err != nil {
				return nil, err
			}
			resolved, err := ResolveParameters(task.Parameters, args)
			if err != nil {
				return nil, err
			}
			config := Substitute(task.ExecutorConfig, resolved).(map[string]any)
			return executor.Execute(config, resolved), nil
		},
	}
}

// buildWorkflowTool synthesises the workflow-invoking tool handler:
// resolve the workflow's own parameters, then run the DAG executor,
// whose steps invoke other registered tools (tasks or nested
// workflows) by name through reg.
func buildWorkflowTool(wf WorkflowConfig, reg *registry.Registry) *registry.Tool {
	invoke := func(taskName string, params map[string]any) (map[string]any, error) {
		tool, ok := reg.Tool(taskName)
		if !ok {
			return nil, mcperrors.ErrToolNotFound(taskName)
		}
		raw, err := json.Marshal(params)
		if err != nil {
			return nil, err
		}
		result, err := tool.Handler(raw)
		if err != nil {
			return nil, err
		}
		asMap, ok := result.(map[string]any)
		if !ok {
			asMap = map[string]any{"success": true, "result": result}
		}
		return asMap, nil
	}
	executor := NewWorkflowExecutor(invoke)

	return &registry.Tool{
		Name:        wf.Name,
		Description: wf.Description,
		InputSchema: inputSchemaFor(wf.Parameters),
		Handler: func(arguments json.RawMessage) (any, error) {
			args, err := decodeArguments(arguments)
			if err != nil {
				return nil, err
			}
			resolved, err := ResolveParameters(wf.Parameters, args)
			if err != nil {
				return nil, err
			}
			return executor.Execute(wf, resolved)
		},
	}
}

func decodeArguments(arguments json.RawMessage) (map[string]any, error) {
	if len(arguments) == 0 {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal(arguments, &args); err != nil {
		return nil, mcperrors.ErrInvalidParams("arguments must be a JSON object: " + err.Error())
	}
	return args, nil
}

// inputSchemaFor computes the synthesised tool's inputSchema per
// spec.md §4.G: integer/float/double/number collapse to JSON Schema
// "number", everything else maps identity-wise; a parameter is
// required iff declared required and carrying no default.
func inputSchemaFor(params []TaskParameter) mcp.ToolInputSchema {
	properties := make(map[string]any, len(params))
	var required []string

	for _, p := range params {
		properties[p.Name] = map[string]any{
			"type":        schemaType(p.Type),
			"description": p.Description,
		}
		if p.Required && !p.HasDefault {
			required = append(required, p.Name)
		}
	}

	return mcp.ToolInputSchema{Type: "object", Properties: properties, Required: required}
}

func schemaType(t string) string {
	switch t {
	case "integer", "float", "double", "number":
		return "number"
	case "":
		return "string"
	default:
		return t
	}
}
