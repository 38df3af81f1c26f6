package query

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// ParseError reports a malformed query document.
// Path is a dotted location such as "bool.filter[1].range".
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

func parseErrorf(path, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Message: fmt.Sprintf(format, args...)}
}

// Parse builds a clause from a decoded query document. It accepts the
// shapes produced by Source for range, term, match_all and bool, so
// Parse(c.Source()) reproduces c.
//
// Range bounds may be given as strings or numbers; numbers are converted to
// their shortest decimal form. The range time zone is read from
// "tile_zone", with "time_zone" accepted as well.
func Parse(doc map[string]any) (Clause, error) {
	return parseClause("", doc)
}

// ParseRequest builds a request from {"query": ..., "from"?: n, "size"?: n}.
// A missing query matches all documents.
func ParseRequest(doc map[string]any) (*Request, error) {
	if err := checkKeys("", doc, "query", "from", "size"); err != nil {
		return nil, err
	}

	req := &Request{}
	if raw, ok := doc["query"]; ok {
		obj, ok := raw.(map[string]any)
		if !ok {
			return nil, parseErrorf("query", "expected object, got %T", raw)
		}
		c, err := parseClause("query", obj)
		if err != nil {
			return nil, err
		}
		req.query = c
	}
	if raw, ok := doc["from"]; ok {
		n, err := intValue("from", raw)
		if err != nil {
			return nil, err
		}
		req.From(n)
	}
	if raw, ok := doc["size"]; ok {
		n, err := intValue("size", raw)
		if err != nil {
			return nil, err
		}
		req.Size(n)
	}
	return req, nil
}

func parseClause(path string, doc map[string]any) (Clause, error) {
	if len(doc) != 1 {
		return nil, parseErrorf(path, "clause must have exactly one key, got %d (%s)",
			len(doc), strings.Join(sortedKeys(doc), ", "))
	}

	for kind, raw := range doc {
		at := join(path, kind)
		body, ok := raw.(map[string]any)
		if !ok {
			return nil, parseErrorf(at, "expected object, got %T", raw)
		}

		switch kind {
		case "range":
			return parseRange(at, body)
		case "term":
			return parseTerm(at, body)
		case "match_all":
			return parseMatchAll(at, body)
		case "bool":
			return parseBool(at, body)
		default:
			return nil, parseErrorf(path, "unknown clause type %q", kind)
		}
	}
	panic("unreachable")
}

func parseRange(path string, body map[string]any) (*Range, error) {
	fields := lo.Without(sortedKeys(body), "_name")
	if len(fields) != 1 {
		return nil, parseErrorf(path, "range must name exactly one field, got %d", len(fields))
	}
	field := fields[0]
	r := NewRange(field)

	if raw, ok := body["_name"]; ok {
		name, err := stringValue(join(path, "_name"), raw)
		if err != nil {
			return nil, err
		}
		r.QueryName(name)
	}

	at := join(path, field)
	params, ok := body[field].(map[string]any)
	if !ok {
		return nil, parseErrorf(at, "expected object, got %T", body[field])
	}
	if err := checkKeys(at, params,
		"gt", "gte", "lt", "lte", "from", "to", "include_lower", "include_upper",
		"tile_zone", "time_zone", "format", "boost"); err != nil {
		return nil, err
	}

	bounds := []struct {
		key string
		set func(string) *Range
	}{
		{"gt", r.Gt},
		{"gte", r.Gte},
		{"lt", r.Lt},
		{"lte", r.Lte},
		{"from", r.From},
		{"to", r.To},
	}
	for _, b := range bounds {
		raw, ok := params[b.key]
		if !ok {
			continue
		}
		v, err := boundValue(join(at, b.key), raw)
		if err != nil {
			return nil, err
		}
		b.set(v)
	}

	if raw, ok := params["include_lower"]; ok {
		v, err := boolValue(join(at, "include_lower"), raw)
		if err != nil {
			return nil, err
		}
		r.IncludeLower(v)
	}
	if raw, ok := params["include_upper"]; ok {
		v, err := boolValue(join(at, "include_upper"), raw)
		if err != nil {
			return nil, err
		}
		r.IncludeUpper(v)
	}

	for _, key := range []string{"time_zone", "tile_zone"} {
		if raw, ok := params[key]; ok {
			v, err := stringValue(join(at, key), raw)
			if err != nil {
				return nil, err
			}
			r.TimeZone(v)
		}
	}
	if raw, ok := params["format"]; ok {
		v, err := stringValue(join(at, "format"), raw)
		if err != nil {
			return nil, err
		}
		r.Format(v)
	}
	if raw, ok := params["boost"]; ok {
		v, err := floatValue(join(at, "boost"), raw)
		if err != nil {
			return nil, err
		}
		r.Boost(v)
	}

	return r, nil
}

func parseTerm(path string, body map[string]any) (*Term, error) {
	if len(body) != 1 {
		return nil, parseErrorf(path, "term must name exactly one field, got %d", len(body))
	}

	for field, raw := range body {
		at := join(path, field)
		params, ok := raw.(map[string]any)
		if !ok {
			// {"term": {"status": "active"}} shorthand
			if err := checkScalar(at, raw); err != nil {
				return nil, err
			}
			return NewTerm(field, raw), nil
		}

		if err := checkKeys(at, params, "value", "boost", "_name"); err != nil {
			return nil, err
		}
		value, ok := params["value"]
		if !ok {
			return nil, parseErrorf(at, "term requires a value")
		}
		if err := checkScalar(join(at, "value"), value); err != nil {
			return nil, err
		}
		t := NewTerm(field, value)
		if raw, ok := params["boost"]; ok {
			v, err := floatValue(join(at, "boost"), raw)
			if err != nil {
				return nil, err
			}
			t.Boost(v)
		}
		if raw, ok := params["_name"]; ok {
			v, err := stringValue(join(at, "_name"), raw)
			if err != nil {
				return nil, err
			}
			t.QueryName(v)
		}
		return t, nil
	}
	panic("unreachable")
}

func parseMatchAll(path string, body map[string]any) (*MatchAll, error) {
	if err := checkKeys(path, body, "boost"); err != nil {
		return nil, err
	}
	m := NewMatchAll()
	if raw, ok := body["boost"]; ok {
		v, err := floatValue(join(path, "boost"), raw)
		if err != nil {
			return nil, err
		}
		m.Boost(v)
	}
	return m, nil
}

func parseBool(path string, body map[string]any) (*Bool, error) {
	if err := checkKeys(path, body,
		"must", "filter", "should", "must_not", "minimum_should_match", "boost", "_name"); err != nil {
		return nil, err
	}

	b := NewBool()
	occasions := []struct {
		key string
		add func(...Clause) *Bool
	}{
		{"must", b.Must},
		{"filter", b.Filter},
		{"should", b.Should},
		{"must_not", b.MustNot},
	}
	for _, occ := range occasions {
		raw, ok := body[occ.key]
		if !ok {
			continue
		}
		clauses, err := parseClauseList(join(path, occ.key), raw)
		if err != nil {
			return nil, err
		}
		occ.add(clauses...)
	}

	if raw, ok := body["minimum_should_match"]; ok {
		n, err := intValue(join(path, "minimum_should_match"), raw)
		if err != nil {
			return nil, err
		}
		b.MinimumShouldMatch(n)
	}
	if raw, ok := body["boost"]; ok {
		v, err := floatValue(join(path, "boost"), raw)
		if err != nil {
			return nil, err
		}
		b.Boost(v)
	}
	if raw, ok := body["_name"]; ok {
		v, err := stringValue(join(path, "_name"), raw)
		if err != nil {
			return nil, err
		}
		b.QueryName(v)
	}
	return b, nil
}

// parseClauseList accepts a single clause object or a list of them.
func parseClauseList(path string, raw any) ([]Clause, error) {
	switch v := raw.(type) {
	case map[string]any:
		c, err := parseClause(path, v)
		if err != nil {
			return nil, err
		}
		return []Clause{c}, nil
	case []any:
		out := make([]Clause, 0, len(v))
		for i, elem := range v {
			at := fmt.Sprintf("%s[%d]", path, i)
			obj, ok := elem.(map[string]any)
			if !ok {
				return nil, parseErrorf(at, "expected object, got %T", elem)
			}
			c, err := parseClause(at, obj)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out, nil
	default:
		return nil, parseErrorf(path, "expected object or list, got %T", raw)
	}
}

func checkKeys(path string, obj map[string]any, allowed ...string) error {
	for _, k := range sortedKeys(obj) {
		if !slices.Contains(allowed, k) {
			return parseErrorf(path, "unknown key %q", k)
		}
	}
	return nil
}

func checkScalar(path string, v any) error {
	switch v.(type) {
	case string, bool, int, int64, float64, json.Number:
		return nil
	default:
		return parseErrorf(path, "expected string, bool or number, got %T", v)
	}
}

func boundValue(path string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	case json.Number:
		return val.String(), nil
	default:
		return "", parseErrorf(path, "expected string or number, got %T", v)
	}
}

func stringValue(path string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", parseErrorf(path, "expected string, got %T", v)
	}
	return s, nil
}

func boolValue(path string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, parseErrorf(path, "expected bool, got %T", v)
	}
	return b, nil
}

func floatValue(path string, v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case int:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return 0, parseErrorf(path, "invalid number %q", val)
		}
		return f, nil
	default:
		return 0, parseErrorf(path, "expected number, got %T", v)
	}
}

func intValue(path string, v any) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != float64(int(val)) {
			return 0, parseErrorf(path, "expected integer, got %v", val)
		}
		return int(val), nil
	case json.Number:
		n, err := val.Int64()
		if err != nil {
			return 0, parseErrorf(path, "expected integer, got %q", val)
		}
		return int(n), nil
	default:
		return 0, parseErrorf(path, "expected integer, got %T", v)
	}
}

func sortedKeys(obj map[string]any) []string {
	keys := lo.Keys(obj)
	slices.Sort(keys)
	return keys
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
