package dynamic

import (
	mcperrors "github.com/nlpresearchai/dynamicmcp/pkg/errors"
)

// ResolveParameters applies the spec's parameter resolution rule to a
// tool invocation: for each declared parameter, in order, the supplied
// value wins, else the default, else (if required) a
// missing_parameter failure. Unknown arguments the caller supplied are
// passed through unchanged.
func ResolveParameters(params []TaskParameter, args map[string]any) (map[string]any, error) {
	resolved := make(map[string]any, len(args))
	for k, v := range args {
		resolved[k] = v
	}

	for _, p := range params {
		if v, ok := args[p.Name]; ok {
			if err := checkType(p, v); err != nil {
				return nil, err
			}
			resolved[p.Name] = v
			continue
		}
		if p.HasDefault {
			resolved[p.Name] = p.Default
			continue
		}
		if p.Required {
			return nil, mcperrors.ErrMissingParameter(p.Name)
		}
	}

	return resolved, nil
}

// checkType applies the spec's best-effort type check: number/integer
// collapse to "is this JSON a number", object/array/string/boolean
// check the matching Go type that encoding/json would have produced.
func checkType(p TaskParameter, v any) error {
	ok := true
	switch p.Type {
	case "string":
		_, ok = v.(string)
	case "integer", "number":
		_, ok = v.(float64)
	case "boolean":
		_, ok = v.(bool)
	case "object":
		_, ok = v.(map[string]any)
	case "array":
		_, ok = v.([]any)
	default:
		ok = true
	}
	if !ok {
		return mcperrors.ErrInvalidParameterType(p.Name, p.Type, jsonKind(v))
	}
	return nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case nil:
		return "null"
	default:
		return "unknown"
	}
}
