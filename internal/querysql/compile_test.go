package querysql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/esdsl/internal/query"
)

func TestCompile_RangeModernBounds(t *testing.T) {
	compiler := NewCompiler()

	sql, params, err := compiler.Compile(query.NewRange("age").Gte("18").Lt("65"))
	require.NoError(t, err)

	assert.Equal(t, "(json_extract(source, ?) >= ? AND json_extract(source, ?) < ?)", sql)
	assert.Equal(t, []any{`$."age"`, int64(18), `$."age"`, int64(65)}, params)
}

func TestCompile_RangeOperators(t *testing.T) {
	compiler := NewCompiler()

	tests := []struct {
		name  string
		build *query.Range
		op    string
	}{
		{"gt", query.NewRange("f").Gt("1"), ">"},
		{"gte", query.NewRange("f").Gte("1"), ">="},
		{"lt", query.NewRange("f").Lt("1"), "<"},
		{"lte", query.NewRange("f").Lte("1"), "<="},
		{"from inclusive", query.NewRange("f").From("1"), ">="},
		{"from exclusive", query.NewRange("f").From("1").IncludeLower(false), ">"},
		{"to inclusive", query.NewRange("f").To("1"), "<="},
		{"to exclusive", query.NewRange("f").To("1").IncludeUpper(false), "<"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := compiler.Compile(tt.build)
			require.NoError(t, err)
			assert.Equal(t, "json_extract(source, ?) "+tt.op+" ?", sql)
			assert.Equal(t, []any{`$."f"`, int64(1)}, params)
		})
	}
}

func TestCompile_RangeWithoutBoundsRequiresField(t *testing.T) {
	sql, params, err := NewCompiler().Compile(query.NewRange("email").IncludeLower(false))
	require.NoError(t, err)

	assert.Equal(t, "json_extract(source, ?) IS NOT NULL", sql)
	assert.Equal(t, []any{`$."email"`}, params)
}

func TestCompile_RangeIgnoresPresentationParams(t *testing.T) {
	plain, plainParams, err := NewCompiler().Compile(query.NewRange("d").Gte("2020-01-01"))
	require.NoError(t, err)

	decorated, decoratedParams, err := NewCompiler().Compile(
		query.NewRange("d").Gte("2020-01-01").Format("yyyy-MM-dd").TimeZone("UTC").Boost(3).QueryName("n"))
	require.NoError(t, err)

	assert.Equal(t, plain, decorated)
	assert.Equal(t, plainParams, decoratedParams)
}

func TestCompile_ValuesNeverInterpolated(t *testing.T) {
	evil := `x' OR 1=1 --`
	sql, params, err := NewCompiler().Compile(query.NewBool().
		Must(query.NewTerm("name", evil)).
		Filter(query.NewRange(`we"ird`).Gt(evil)))
	require.NoError(t, err)

	assert.NotContains(t, sql, evil)
	assert.NotContains(t, sql, "we")
	assert.Contains(t, params, evil)
}

func TestCompile_Term(t *testing.T) {
	tests := []struct {
		name  string
		value any
		param any
	}{
		{"string", "active", "active"},
		{"int", 3, int64(3)},
		{"bool", true, true},
		{"float", 1.5, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewCompiler().Compile(query.NewTerm("user.status", tt.value))
			require.NoError(t, err)
			assert.Equal(t, "json_extract(source, ?) = ?", sql)
			assert.Equal(t, []any{`$."user"."status"`, tt.param}, params)
		})
	}
}

func TestCompile_TermRejectsUnsupportedValues(t *testing.T) {
	_, _, err := NewCompiler().Compile(query.NewTerm("a", nil))
	require.Error(t, err)

	_, _, err = NewCompiler().Compile(query.NewTerm("a", []string{"x"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported term value type")
}

func TestCompile_MatchAll(t *testing.T) {
	sql, params, err := NewCompiler().Compile(query.NewMatchAll().Boost(2))
	require.NoError(t, err)
	assert.Equal(t, "1 = 1", sql)
	assert.Empty(t, params)
}

func TestCompile_Bool(t *testing.T) {
	tests := []struct {
		name   string
		clause *query.Bool
		sql    string
		params []any
	}{
		{
			name:   "empty",
			clause: query.NewBool(),
			sql:    "1 = 1",
		},
		{
			name:   "must and filter",
			clause: query.NewBool().Must(query.NewTerm("a", "x")).Filter(query.NewRange("n").Gt("1")),
			sql:    "(json_extract(source, ?) = ?) AND (json_extract(source, ?) > ?)",
			params: []any{`$."a"`, "x", `$."n"`, int64(1)},
		},
		{
			name:   "must_not",
			clause: query.NewBool().MustNot(query.NewTerm("deleted", true)),
			sql:    "NOT COALESCE((json_extract(source, ?) = ?), 0)",
			params: []any{`$."deleted"`, true},
		},
		{
			name:   "should alone is required",
			clause: query.NewBool().Should(query.NewTerm("a", "x"), query.NewTerm("b", "y")),
			sql:    "(COALESCE((json_extract(source, ?) = ?), 0) OR COALESCE((json_extract(source, ?) = ?), 0))",
			params: []any{`$."a"`, "x", `$."b"`, "y"},
		},
		{
			name:   "should optional next to must",
			clause: query.NewBool().Must(query.NewTerm("a", "x")).Should(query.NewTerm("b", "y")),
			sql:    "(json_extract(source, ?) = ?)",
			params: []any{`$."a"`, "x"},
		},
		{
			name: "minimum_should_match above one",
			clause: query.NewBool().
				Should(query.NewTerm("a", 1), query.NewTerm("b", 2), query.NewTerm("c", 3)).
				MinimumShouldMatch(2),
			sql: "(COALESCE((json_extract(source, ?) = ?), 0) + COALESCE((json_extract(source, ?) = ?), 0) + " +
				"COALESCE((json_extract(source, ?) = ?), 0)) >= ?",
			params: []any{`$."a"`, int64(1), `$."b"`, int64(2), `$."c"`, int64(3), int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, params, err := NewCompiler().Compile(tt.clause)
			require.NoError(t, err)
			assert.Equal(t, tt.sql, sql)
			if tt.params == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.params, params)
			}
		})
	}
}

type unknownClause struct{}

func (unknownClause) Source() map[string]any { return map[string]any{"fuzzy": map[string]any{}} }

func TestCompile_Errors(t *testing.T) {
	_, _, err := NewCompiler().Compile(nil)
	require.Error(t, err)

	_, _, err = NewCompiler().Compile(unknownClause{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported clause type")

	_, _, err = NewCompiler().Compile(query.NewBool().Filter(unknownClause{}))
	require.Error(t, err)
}

func TestCompile_CustomColumn(t *testing.T) {
	compiler := &Compiler{Column: "doc"}

	sql, _, err := compiler.Compile(query.NewTerm("a", "b"))
	require.NoError(t, err)
	assert.Equal(t, "json_extract(doc, ?) = ?", sql)
}

func TestJSONPath(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"age", `$."age"`},
		{"user.address.city", `$."user"."address"."city"`},
		{"", `$.""`},
	}
	for _, tt := range tests {
		got, err := JSONPath(tt.field)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := JSONPath(`a"b`)
	assert.ErrorContains(t, err, "double quote")
}

func TestCompile_RejectsQuoteInFieldName(t *testing.T) {
	_, _, err := NewCompiler().Compile(query.NewRange(`a"b`).Gte("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "double quote")

	_, _, err = NewCompiler().Compile(query.NewTerm(`user.na"me`, "x"))
	require.Error(t, err)

	_, _, err = NewCompiler().Compile(query.NewBool().Filter(query.NewRange(`a"b`)))
	require.Error(t, err)
}

func TestBoundParam(t *testing.T) {
	assert.Equal(t, int64(42), BoundParam("42"))
	assert.Equal(t, int64(-7), BoundParam("-7"))
	assert.Equal(t, 2.5, BoundParam("2.5"))
	assert.Equal(t, "2020-01-01", BoundParam("2020-01-01"))
	assert.Equal(t, "now-1d", BoundParam("now-1d"))
	assert.Equal(t, "NaN", BoundParam("NaN"))
	assert.Equal(t, "Inf", BoundParam("Inf"))
}

func TestNamedClauses(t *testing.T) {
	adults := query.NewRange("age").Gte("18").QueryName("adults")
	active := query.NewTerm("status", "active").QueryName("active")
	inner := query.NewBool().Should(active).QueryName("inner")
	q := query.NewBool().
		Filter(adults, query.NewRange("score").Gt("0")).
		Must(inner)

	named := NamedClauses(q)
	require.Len(t, named, 3)
	assert.Equal(t, "inner", named[0].Name)
	assert.Equal(t, "active", named[1].Name)
	assert.Equal(t, "adults", named[2].Name)
	assert.Same(t, adults, named[2].Clause)

	assert.Empty(t, NamedClauses(query.NewMatchAll()))
}
