package ir

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"int64", int64(-100), "-100"},
		{"zero", int64(0), "0"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"null", nil, "null"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array of ints", []any{1, 2, 3}, "[1,2,3]"},
		{"string slice", []string{"a", "b"}, `["a","b"]`},
		{"simple object", map[string]any{"a": 1}, `{"a":1}`},
		{"json number int", json.Number("7"), "7"},
		{"json number float", json.Number("1.5"), "1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalFloats(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"integral", 2.0, "2"},
		{"fraction", 1.5, "1.5"},
		{"negative", -0.25, "-0.25"},
		{"negative zero", math.Copysign(0, -1), "0"},
		{"tiny", 1e-7, "1e-07"},
		{"huge", 1e21, "1e+21"},
		{"below huge", 1e20, "100000000000000000000"},
		{"shortest", 0.1, "0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := MarshalCanonical(map[string]any{"boost": f})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-finite")
		assert.Contains(t, err.Error(), `"boost"`)
	}
}

func TestMarshalCanonicalRejectsUnsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported type")
}

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": 1,
		"alpha": 2,
		"beta":  3,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalCanonicalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{
			"b": 1,
			"a": 2,
		},
		"a": 3,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalCanonicalUnderscoreKeysBeforeLowercase(t *testing.T) {
	// '_' (0x5F) sorts after uppercase and before lowercase letters.
	obj := map[string]any{
		"age":   map[string]any{},
		"_name": "q1",
		"Zed":   true,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"Zed":true,"_name":"q1","age":{}}`, string(result))
}

func TestMarshalCanonicalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000 - UTF-16 order differs from UTF-8
	obj := map[string]any{
		"\uE000":     1,
		"\U00010000": 2,
	}

	result, err := MarshalCanonical(obj)
	require.NoError(t, err)

	// UTF-16: 0xD800 (surrogate) < 0xE000
	expected := "{\"\U00010000\":2,\"\uE000\":1}"
	assert.Equal(t, expected, string(result))
}

func TestMarshalCanonicalNoHTMLEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"less than", "<script>", `"<script>"`},
		{"ampersand", "a & b", `"a & b"`},
		{"all html chars", "<script>alert('xss')</script>", `"<script>alert('xss')</script>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
			assert.NotContains(t, string(result), "\\u003c")
			assert.NotContains(t, string(result), "\\u0026")
		})
	}
}

func TestMarshalCanonicalNFCNormalization(t *testing.T) {
	// "e" + COMBINING ACUTE ACCENT normalizes to U+00E9
	decomposed := "cafe\u0301"
	composed := "caf\u00e9"

	a, err := MarshalCanonical(decomposed)
	require.NoError(t, err)
	b, err := MarshalCanonical(composed)
	require.NoError(t, err)
	assert.Equal(t, string(b), string(a))

	keyed, err := MarshalCanonical(map[string]any{decomposed: 1})
	require.NoError(t, err)
	assert.Equal(t, "{\"caf\u00e9\":1}", string(keyed))
}

func TestMarshalSortedKeepsCodePoints(t *testing.T) {
	decomposed := "cafe\u0301"

	out, err := MarshalSorted(map[string]any{decomposed: decomposed, "a": "<b>"})
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":\"<b>\",\"cafe\u0301\":\"cafe\u0301\"}", string(out))

	canonical, err := MarshalCanonical(map[string]any{decomposed: decomposed})
	require.NoError(t, err)
	assert.Equal(t, "{\"caf\u00e9\":\"caf\u00e9\"}", string(canonical))
}

func TestMarshalCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalCanonicalLineSeparators(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"U+2028", "hello\u2028world", "\"hello\u2028world\""},
		{"U+2029", "hello\u2029world", "\"hello\u2029world\""},
		{"literal backslash-u2028 text", `seq \u2028`, `"seq \\u2028"`},
		{"mixed literal and actual", "lit \\u2028 and \u2028", "\"lit \\\\u2028 and \u2028\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

type fakeClause struct{}

func (fakeClause) Source() map[string]any {
	return map[string]any{"match_all": map[string]any{}}
}

func TestMarshalCanonicalSourcer(t *testing.T) {
	doc := map[string]any{
		"query": fakeClause{},
		"size":  10,
	}

	result, err := MarshalCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"query":{"match_all":{}},"size":10}`, string(result))
}

func TestMarshalCanonicalIdempotency(t *testing.T) {
	obj := map[string]any{
		"range": map[string]any{
			"age": map[string]any{"gte": "10", "lt": "20", "boost": 1.5},
		},
	}

	first := MustMarshalCanonical(obj)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, MustMarshalCanonical(obj))
	}
}

func TestCompareKeysRFC8785(t *testing.T) {
	assert.Equal(t, 0, compareKeysRFC8785("a", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "b"))
	assert.Equal(t, 1, compareKeysRFC8785("b", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("a", "ab"))
	assert.Equal(t, 1, compareKeysRFC8785("ab", "a"))
	assert.Equal(t, -1, compareKeysRFC8785("\U00010000", "\uE000"))
}
