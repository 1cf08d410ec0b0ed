package dynamic

import (
	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
)

// topoSort orders a workflow's steps so that every step appears after
// all of its dependencies, via a depth-first visit of steps in
// declaration order: on first visit of a step, recursively visit its
// dependencies (in the order listed), then emit the step. Revisits are
// skipped. A dependency re-entered while still on the current
// recursion stack indicates a cycle.
func topoSort(workflow string, steps []Step) ([]Step, error) {
	byName := make(map[string]Step, len(steps))
	for _, s := range steps {
		byName[s.Name] = s
	}

	const (
		unvisited = 0
		visiting  = 1
		visited   = 2
	)
	state := make(map[string]int, len(steps))
	var ordered []Step

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case visited:
			return nil
		case visiting:
			return mcperrors.ErrWorkflowCycle(workflow)
		}
		state[name] = visiting
		step, ok := byName[name]
		if !ok {
			return mcperrors.ErrToolNotFound(name)
		}
		for _, dep := range step.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = visited
		ordered = append(ordered, step)
		return nil
	}

	for _, s := range steps {
		if err := visit(s.Name); err != nil {
			return nil, err
		}
	}

	return ordered, nil
}

// StepInvoker invokes a previously-synthesised tool (task or nested
// workflow) by name, given its resolved arguments, and returns its
// JSON-compatible result.
type StepInvoker func(task string, args map[string]any) (map[string]any, error)

// WorkflowExecutor runs a workflow's steps in dependency order,
// threading a running environment: env starts as the workflow's own
// (already-resolved) call arguments, gains one entry per completed
// step — env[step.Name] = result, always, win or lose — and any
// output_mapping entries the step declares, each copying the step
// result's value under that key into env under the mapped variable
// name (keys absent from the result are skipped).
type WorkflowExecutor struct {
	invoke StepInvoker
}

// NewWorkflowExecutor builds an executor delegating each step's task
// invocation to invoke.
func NewWorkflowExecutor(invoke StepInvoker) *WorkflowExecutor {
	return &WorkflowExecutor{invoke: invoke}
}

// Execute runs wf to completion or first failure. On failure it
// returns {success: false, failed_step, error, step_results} without
// an error value — a failed step is a normal, fully-described outcome,
// not a transport/protocol fault.
func (e *WorkflowExecutor) Execute(wf WorkflowConfig, args map[string]any) (map[string]any, error) {
	ordered, err := topoSort(wf.Name, wf.Steps)
	if err != nil {
		return nil, err
	}

	env := make(map[string]any, len(args))
	for k, v := range args {
		env[k] = v
	}

	for _, step := range ordered {
		stepParams := make(map[string]any, len(env)+len(step.InputMapping))
		for k, v := range env {
			stepParams[k] = v
		}
		for paramName, template := range step.InputMapping {
			stepParams[paramName] = Substitute(template, env)
		}

		result, err := e.invoke(step.Task, stepParams)
		if err != nil {
			return nil, err
		}

		if success, ok := result["success"].(bool); ok && !success {
			env[step.Name] = result
			return map[string]any{
				"success":      false,
				"failed_step":  step.Name,
				"error":        result["error"],
				"step_results": env,
			}, nil
		}

		for resultKey, variableName := range step.OutputMapping {
			if v, ok := result[resultKey]; ok {
				env[variableName] = v
			}
		}
		env[step.Name] = result
	}

	return map[string]any{
		"success":       true,
		"workflow":      wf.Name,
		"steps_executed": len(ordered),
		"step_results":  env,
	}, nil
}
