package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// Term matches documents whose field holds exactly value.
type Term struct {
	field     string
	value     any
	boost     *float64
	queryName string
}

// NewTerm creates a term clause. value should be a string, bool or number.
func NewTerm(field string, value any) *Term {
	return &Term{field: field, value: value}
}

// Boost sets the relative scoring weight of the clause.
func (t *Term) Boost(boost float64) *Term {
	t.boost = &boost
	return t
}

// QueryName tags the clause for matched-query reporting.
func (t *Term) QueryName(name string) *Term {
	t.queryName = name
	return t
}

// Field returns the field the term applies to.
func (t *Term) Field() string { return t.field }

// Value returns the term value.
func (t *Term) Value() any { return t.value }

// Name returns the query name, or "" when unset.
func (t *Term) Name() string { return t.queryName }

// Source renders {"term": {"<field>": {"value": v, "boost"?, "_name"?}}}.
func (t *Term) Source() map[string]any {
	params := map[string]any{"value": t.value}
	if t.boost != nil {
		params["boost"] = *t.boost
	}
	if t.queryName != "" {
		params["_name"] = t.queryName
	}
	return map[string]any{
		"term": map[string]any{t.field: params},
	}
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (t *Term) MarshalJSON() ([]byte, error) {
	return ir.MarshalSorted(t.Source())
}
