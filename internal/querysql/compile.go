package querysql

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roach88/esdsl/internal/ir"
	"github.com/roach88/esdsl/internal/query"
)

// DefaultColumn is the column holding each document's JSON source.
const DefaultColumn = "source"

// Compiler compiles query clauses to parameterized SQLite WHERE fragments
// over JSON documents.
//
// CRITICAL: All values and JSON paths are parameterized, never interpolated.
// Only Column is written into the SQL text and must be a trusted identifier.
type Compiler struct {
	Column string
}

// NewCompiler creates a Compiler reading documents from DefaultColumn.
func NewCompiler() *Compiler {
	return &Compiler{Column: DefaultColumn}
}

// Compile converts a clause to a WHERE fragment and its parameters.
//
// Range bounds bind as int64 or float64 when they parse as numbers and as
// text otherwise, so numeric fields compare numerically and date strings
// compare lexically. Boost, format and time zone do not affect matching.
func (c *Compiler) Compile(q query.Clause) (string, []any, error) {
	if q == nil {
		return "", nil, fmt.Errorf("cannot compile nil clause")
	}

	switch clause := q.(type) {
	case *query.Range:
		return c.compileRange(clause)
	case *query.Term:
		return c.compileTerm(clause)
	case *query.MatchAll:
		return "1 = 1", nil, nil
	case *query.Bool:
		return c.compileBool(clause)
	default:
		return "", nil, fmt.Errorf("unsupported clause type: %T", q)
	}
}

// extract returns the json_extract expression for one path parameter.
func (c *Compiler) extract() string {
	col := c.Column
	if col == "" {
		col = DefaultColumn
	}
	return fmt.Sprintf("json_extract(%s, ?)", col)
}

// compileRange compiles each set bound to a comparison joined with AND.
// A range with no bounds matches documents where the field exists.
func (c *Compiler) compileRange(r *query.Range) (string, []any, error) {
	path, err := JSONPath(r.Field())
	if err != nil {
		return "", nil, fmt.Errorf("range: %w", err)
	}
	b := r.Bounds()

	type cmp struct {
		op    string
		bound *string
	}
	var cmps []cmp
	add := func(op string, bound *string) {
		if bound != nil {
			cmps = append(cmps, cmp{op: op, bound: bound})
		}
	}

	add(">", b.Gt)
	add(">=", b.Gte)
	add("<", b.Lt)
	add("<=", b.Lte)
	if b.IncludeLower {
		add(">=", b.From)
	} else {
		add(">", b.From)
	}
	if b.IncludeUpper {
		add("<=", b.To)
	} else {
		add("<", b.To)
	}

	if len(cmps) == 0 {
		return c.extract() + " IS NOT NULL", []any{path}, nil
	}

	parts := make([]string, len(cmps))
	params := make([]any, 0, 2*len(cmps))
	for i, cm := range cmps {
		parts[i] = fmt.Sprintf("%s %s ?", c.extract(), cm.op)
		params = append(params, path, BoundParam(*cm.bound))
	}

	sql := strings.Join(parts, " AND ")
	if len(parts) > 1 {
		sql = "(" + sql + ")"
	}
	return sql, params, nil
}

// compileTerm compiles a term to "json_extract(...) = ?".
func (c *Compiler) compileTerm(t *query.Term) (string, []any, error) {
	param, err := termParam(t.Value())
	if err != nil {
		return "", nil, fmt.Errorf("term %q: %w", t.Field(), err)
	}
	path, err := JSONPath(t.Field())
	if err != nil {
		return "", nil, fmt.Errorf("term: %w", err)
	}
	return c.extract() + " = ?", []any{path, param}, nil
}

// compileBool compiles a bool clause.
//
// must and filter are ANDed, must_not is negated, and should is required
// when there is no must/filter or when minimum_should_match is set. A
// should threshold above one counts matches: ((a) + (b) + ...) >= n.
// Comparisons on missing fields yield NULL, so negated and counted
// sub-clauses are wrapped in COALESCE(..., 0).
func (c *Compiler) compileBool(b *query.Bool) (string, []any, error) {
	must, filter, should, mustNot := b.Occasions()

	var parts []string
	var params []any

	for _, sub := range append(append([]query.Clause{}, must...), filter...) {
		sql, p, err := c.Compile(sub)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		params = append(params, p...)
	}

	for _, sub := range mustNot {
		sql, p, err := c.Compile(sub)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "NOT COALESCE(("+sql+"), 0)")
		params = append(params, p...)
	}

	if len(should) > 0 {
		msm, set := b.MinimumShouldMatchValue()
		if !set {
			msm = 0
			if len(must)+len(filter) == 0 {
				msm = 1
			}
		}

		if msm > 0 {
			terms := make([]string, 0, len(should))
			for _, sub := range should {
				sql, p, err := c.Compile(sub)
				if err != nil {
					return "", nil, err
				}
				terms = append(terms, "COALESCE(("+sql+"), 0)")
				params = append(params, p...)
			}
			if msm == 1 {
				parts = append(parts, "("+strings.Join(terms, " OR ")+")")
			} else {
				parts = append(parts, "("+strings.Join(terms, " + ")+") >= ?")
				params = append(params, int64(msm))
			}
		}
	}

	if len(parts) == 0 {
		return "1 = 1", nil, nil
	}
	return strings.Join(parts, " AND "), params, nil
}

// JSONPath converts a dotted field name to a SQLite JSON path with every
// segment quoted: "user.age" becomes $."user"."age".
//
// A segment containing a double quote cannot be written as a SQLite path
// label and is rejected.
func JSONPath(field string) (string, error) {
	segments := strings.Split(field, ".")
	var sb strings.Builder
	sb.WriteString("$")
	for _, seg := range segments {
		if strings.Contains(seg, `"`) {
			return "", fmt.Errorf("field %q: double quote is not supported in a field path", field)
		}
		sb.WriteString(`."`)
		sb.WriteString(seg)
		sb.WriteString(`"`)
	}
	return sb.String(), nil
}

// BoundParam converts a range bound to a SQL parameter: int64 when it
// parses as an integer, float64 when it parses as a finite float, and the
// original string otherwise.
func BoundParam(bound string) any {
	if i, err := strconv.ParseInt(bound, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(bound, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	return bound
}

// termParam converts a term value to a Go native type for SQL parameter.
func termParam(v any) (any, error) {
	switch val := v.(type) {
	case string, bool, int64, float64:
		return val, nil
	case int:
		return int64(val), nil
	case json.Number:
		return ir.NormalizeNumber(val)
	case nil:
		return nil, fmt.Errorf("null term value cannot be matched")
	default:
		return nil, fmt.Errorf("unsupported term value type: %T", v)
	}
}
