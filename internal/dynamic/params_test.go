package dynamic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParameters_SuppliedOverridesDefault(t *testing.T) {
	params := []TaskParameter{
		{Name: "a", Type: "number", Required: true},
		{Name: "b", Type: "string", HasDefault: true, Default: "fallback"},
	}
	resolved, err := ResolveParameters(params, map[string]any{"a": float64(5)})
	require.NoError(t, err)
	assert.Equal(t, float64(5), resolved["a"])
	assert.Equal(t, "fallback", resolved["b"])
}

func TestResolveParameters_MissingRequiredFails(t *testing.T) {
	params := []TaskParameter{{Name: "a", Type: "string", Required: true}}
	_, err := ResolveParameters(params, map[string]any{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_parameter")
	assert.Contains(t, err.Error(), "a")
}

func TestResolveParameters_TypeMismatchFails(t *testing.T) {
	params := []TaskParameter{{Name: "a", Type: "number", Required: true}}
	_, err := ResolveParameters(params, map[string]any{"a": "not a number"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_parameter_type")
}

func TestResolveParameters_UnknownArgumentsPassThrough(t *testing.T) {
	resolved, err := ResolveParameters(nil, map[string]any{"extra": "kept"})
	require.NoError(t, err)
	assert.Equal(t, "kept", resolved["extra"])
}

func TestResolveParameters_NotRequiredAndAbsentIsOmitted(t *testing.T) {
	params := []TaskParameter{{Name: "a", Type: "string", Required: false}}
	resolved, err := ResolveParameters(params, map[string]any{})
	require.NoError(t, err)
	_, ok := resolved["a"]
	assert.False(t, ok)
}
