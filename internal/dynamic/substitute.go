package dynamic

import (
	"encoding/json"
	"strings"
)

// Substitute walks value (an executor config fragment, or a workflow
// step's input/output mapping template) and replaces every "{name}"
// placeholder found in any string it contains, recursing into object
// values and array elements but never into object keys.
func Substitute(value any, env map[string]any) any {
	switch v := value.(type) {
	case string:
		return SubstituteString(v, env)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = Substitute(val, env)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = Substitute(val, env)
		}
		return out
	default:
		return v
	}
}

// SubstituteString replaces every "{name}" occurrence in s whose name
// is a key of env. A string value substitutes its literal contents; a
// non-string value substitutes its compact JSON encoding. A "{" not
// followed by a known parameter name (and matching "}") is left
// untouched.
func SubstituteString(s string, env map[string]any) string {
	if !strings.Contains(s, "{") {
		return s
	}
	for name, val := range env {
		placeholder := "{" + name + "}"
		if !strings.Contains(s, placeholder) {
			continue
		}
		s = strings.ReplaceAll(s, placeholder, stringify(val))
	}
	return s
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
