// Package dynamic implements the dynamic layer: it loads a declarative
// JSON configuration of tasks and workflows, synthesises MCP tools for
// each, and executes workflow DAGs whose steps reference prior steps'
// outputs by name.
//
// Grounded directly on original_source/include/cppmcp/dynamic_mcp_server.hpp
// and its .cpp (TaskConfig, WorkflowConfig, ConfigLoader, WorkflowExecutor,
// DynamicToolGenerator), ported idiomatically: C++ json/std::map ->
// Go map[string]any/encoding/json, the five-variant executor dispatch ->
// a Go interface with five concrete implementations registered once in
// a map[string]Executor (per spec.md's DESIGN NOTES §9).
package dynamic

import (
	"encoding/json"
	"fmt"
	"os"

	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
)

// ServerInfo describes the server the configuration file wants
// started — name, version, and an optional description.
type ServerInfo struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// DefaultServerInfo is substituted when the configuration omits
// server_info entirely.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{Name: "DynamicTaskServer", Version: "1.0.0"}
}

// TaskParameter is one declared parameter of a task or workflow.
type TaskParameter struct {
	Name        string
	Type        string
	Required    bool
	Description string
	HasDefault  bool
	Default     any
}

// TaskConfig declares one dynamically-synthesised tool backed by an
// executor.
type TaskConfig struct {
	Name          string
	Description   string
	OperationType string
	ExecutorConfig map[string]any
	Parameters    []TaskParameter
}

// Step is one node of a workflow's dependency DAG.
type Step struct {
	Name          string
	Task          string
	Dependencies  []string
	InputMapping  map[string]string
	OutputMapping map[string]string
}

// WorkflowConfig declares one dynamically-synthesised tool backed by a
// dependency-ordered sequence of task/workflow invocations.
type WorkflowConfig struct {
	Name        string
	Description string
	Parameters  []TaskParameter
	Steps       []Step
}

// Config is the fully parsed configuration file.
type Config struct {
	ServerInfo ServerInfo
	Tasks      []TaskConfig
	Workflows  []WorkflowConfig
}

// rawConfig mirrors the configuration file's top-level JSON shape
// before type validation.
type rawConfig struct {
	ServerInfo json.RawMessage   `json:"server_info"`
	Tasks      []json.RawMessage `json:"tasks"`
	Workflows  []json.RawMessage `json:"workflows"`
}

type rawServerInfo struct {
	Name        *string `json:"name"`
	Version     *string `json:"version"`
	Description *string `json:"description"`
}

type rawParameter struct {
	Name        *string         `json:"name"`
	Type        *string         `json:"type"`
	Required    *bool           `json:"required"`
	Description *string         `json:"description"`
	Default     json.RawMessage `json:"default"`
}

type rawTask struct {
	Name          *string           `json:"name"`
	Description   *string           `json:"description"`
	OperationType *string           `json:"operation_type"`
	Config        map[string]any    `json:"executor_config"`
	Parameters    []json.RawMessage `json:"parameters"`
}

type rawStep struct {
	Name          *string           `json:"name"`
	Task          *string           `json:"task"`
	Dependencies  []string          `json:"dependencies"`
	InputMapping  map[string]string `json:"input_mapping"`
	OutputMapping map[string]string `json:"output_mapping"`
}

type rawWorkflow struct {
	Name        *string           `json:"name"`
	Description *string           `json:"description"`
	Parameters  []json.RawMessage `json:"parameters"`
	Steps       []json.RawMessage `json:"steps"`
}

// LoadConfig reads and validates the configuration file at path.
// Missing optional fields receive their documented defaults; a
// required field carrying the wrong JSON type fails with a
// *errors.ConfigError naming the offending path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mcperrors.ErrConfig(path, "failed to read config file: "+err.Error())
	}

	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, mcperrors.ErrConfig(path, "failed to parse config file: "+err.Error())
	}

	cfg := &Config{ServerInfo: DefaultServerInfo()}

	if len(raw.ServerInfo) > 0 {
		var rs rawServerInfo
		if err := json.Unmarshal(raw.ServerInfo, &rs); err != nil {
			return nil, mcperrors.ErrConfig("server_info", "server_info must be an object")
		}
		if rs.Name != nil {
			cfg.ServerInfo.Name = *rs.Name
		}
		if rs.Version != nil {
			cfg.ServerInfo.Version = *rs.Version
		}
		if rs.Description != nil {
			cfg.ServerInfo.Description = *rs.Description
		}
	}

	for i, rt := range raw.Tasks {
		task, err := parseTask(rt, i)
		if err != nil {
			return nil, err
		}
		cfg.Tasks = append(cfg.Tasks, task)
	}

	for i, rw := range raw.Workflows {
		wf, err := parseWorkflow(rw, i)
		if err != nil {
			return nil, err
		}
		cfg.Workflows = append(cfg.Workflows, wf)
	}

	return cfg, nil
}

func parseTask(raw json.RawMessage, idx int) (TaskConfig, error) {
	pathPrefix := fmt.Sprintf("tasks[%d]", idx)
	var rt rawTask
	if err := json.Unmarshal(raw, &rt); err != nil {
		return TaskConfig{}, mcperrors.ErrConfig(pathPrefix, "must be an object")
	}

	task := TaskConfig{ExecutorConfig: rt.Config}
	if task.ExecutorConfig == nil {
		task.ExecutorConfig = map[string]any{}
	}
	if rt.Name != nil {
		task.Name = *rt.Name
	} else {
		return TaskConfig{}, mcperrors.ErrConfig(pathPrefix+".name", "required field missing or not a string")
	}
	if rt.Description != nil {
		task.Description = *rt.Description
	}
	if rt.OperationType != nil {
		task.OperationType = *rt.OperationType
	} else {
		return TaskConfig{}, mcperrors.ErrConfig(pathPrefix+".operation_type", "required field missing or not a string")
	}

	for i, rp := range rt.Parameters {
		param, err := parseParameter(rp, fmt.Sprintf("%s.parameters[%d]", pathPrefix, i))
		if err != nil {
			return TaskConfig{}, err
		}
		task.Parameters = append(task.Parameters, param)
	}

	return task, nil
}

func parseWorkflow(raw json.RawMessage, idx int) (WorkflowConfig, error) {
	pathPrefix := fmt.Sprintf("workflows[%d]", idx)
	var rw rawWorkflow
	if err := json.Unmarshal(raw, &rw); err != nil {
		return WorkflowConfig{}, mcperrors.ErrConfig(pathPrefix, "must be an object")
	}

	wf := WorkflowConfig{}
	if rw.Name != nil {
		wf.Name = *rw.Name
	} else {
		return WorkflowConfig{}, mcperrors.ErrConfig(pathPrefix+".name", "required field missing or not a string")
	}
	if rw.Description != nil {
		wf.Description = *rw.Description
	}

	for i, rp := range rw.Parameters {
		param, err := parseParameter(rp, fmt.Sprintf("%s.parameters[%d]", pathPrefix, i))
		if err != nil {
			return WorkflowConfig{}, err
		}
		wf.Parameters = append(wf.Parameters, param)
	}

	for i, rs := range rw.Steps {
		step, err := parseStep(rs, fmt.Sprintf("%s.steps[%d]", pathPrefix, i))
		if err != nil {
			return WorkflowConfig{}, err
		}
		wf.Steps = append(wf.Steps, step)
	}

	return wf, nil
}

func parseParameter(raw json.RawMessage, path string) (TaskParameter, error) {
	var rp rawParameter
	if err := json.Unmarshal(raw, &rp); err != nil {
		return TaskParameter{}, mcperrors.ErrConfig(path, "must be an object")
	}

	param := TaskParameter{Type: "string", Required: true}
	if rp.Name != nil {
		param.Name = *rp.Name
	} else {
		return TaskParameter{}, mcperrors.ErrConfig(path+".name", "required field missing or not a string")
	}
	if rp.Type != nil {
		param.Type = *rp.Type
	}
	if rp.Required != nil {
		param.Required = *rp.Required
	}
	if rp.Description != nil {
		param.Description = *rp.Description
	}
	if len(rp.Default) > 0 {
		var def any
		if err := json.Unmarshal(rp.Default, &def); err != nil {
			return TaskParameter{}, mcperrors.ErrConfig(path+".default", "must be valid JSON")
		}
		param.HasDefault = true
		param.Default = def
	}

	return param, nil
}

func parseStep(raw json.RawMessage, path string) (Step, error) {
	var rs rawStep
	if err := json.Unmarshal(raw, &rs); err != nil {
		return Step{}, mcperrors.ErrConfig(path, "must be an object")
	}

	step := Step{InputMapping: rs.InputMapping, OutputMapping: rs.OutputMapping}
	if step.InputMapping == nil {
		step.InputMapping = map[string]string{}
	}
	if step.OutputMapping == nil {
		step.OutputMapping = map[string]string{}
	}
	if rs.Name != nil {
		step.Name = *rs.Name
	} else {
		return Step{}, mcperrors.ErrConfig(path+".name", "required field missing or not a string")
	}
	if rs.Task != nil {
		step.Task = *rs.Task
	} else {
		return Step{}, mcperrors.ErrConfig(path+".task", "required field missing or not a string")
	}
	step.Dependencies = rs.Dependencies

	return step, nil
}
