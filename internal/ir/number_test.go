package ir

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		in       json.Number
		expected any
	}{
		{"1", int64(1)},
		{"-42", int64(-42)},
		{"1.0", float64(1)},
		{"2.5", 2.5},
		{"1e3", float64(1000)},
		{"99999999999999999999", float64(1e20)},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			got, err := NormalizeNumber(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDecodeJSONKeepsIntegersExact(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"id": 9007199254740993, "score": 1.25, "tags": ["a", 2]}`))
	require.NoError(t, err)

	obj := v.(map[string]any)
	assert.Equal(t, int64(9007199254740993), obj["id"])
	assert.Equal(t, 1.25, obj["score"])
	assert.Equal(t, []any{"a", int64(2)}, obj["tags"])
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	_, err := DecodeJSON([]byte(`{} {}`))
	require.Error(t, err)
}

func TestDecodeJSONObject(t *testing.T) {
	obj, err := DecodeJSONObject([]byte(`{"a": true}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": true}, obj)

	_, err = DecodeJSONObject([]byte(`[1]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected JSON object")
}

func TestNormalizeYAMLMaps(t *testing.T) {
	in := map[any]any{
		"range": map[any]any{"age": map[string]any{"gt": 5}},
	}

	out, err := Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"range": map[string]any{"age": map[string]any{"gt": int64(5)}},
	}, out)

	_, err = Normalize(map[any]any{1: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-string object key")
}
