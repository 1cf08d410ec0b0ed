package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubstituteString(t *testing.T) {
	env := map[string]any{"x": "hello", "n": float64(42)}

	assert.Equal(t, "hello", SubstituteString("{x}", env))
	assert.Equal(t, "42", SubstituteString("{n}", env))
	assert.Equal(t, "a-b", SubstituteString("a{y}b", map[string]any{"y": "-"}))
	assert.Equal(t, "a{y}b", SubstituteString("a{y}b", map[string]any{}))
}

func TestSubstitute_RecursesIntoObjectsAndArrays(t *testing.T) {
	env := map[string]any{"name": "alice", "count": float64(3)}
	value := map[string]any{
		"greeting": "hi {name}",
		"items":    []any{"{count} left", map[string]any{"nested": "{name}!"}},
		"{name}":   "key untouched",
	}

	out := Substitute(value, env).(map[string]any)
	assert.Equal(t, "hi alice", out["greeting"])
	assert.Contains(t, out, "{name}")
	assert.Equal(t, "key untouched", out["{name}"])

	items := out["items"].([]any)
	assert.Equal(t, "3 left", items[0])
	nested := items[1].(map[string]any)
	assert.Equal(t, "alice!", nested["nested"])
}

func TestSubstitute_NonStringValuesPassThrough(t *testing.T) {
	assert.Equal(t, float64(7), Substitute(float64(7), nil))
	assert.Equal(t, true, Substitute(true, nil))
	assert.Nil(t, Substitute(nil, nil))
}
