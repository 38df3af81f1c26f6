package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// Range matches documents whose field value falls within the configured
// bounds.
//
// Two bound styles coexist. Gt, Gte, Lt and Lte are the current style.
// From, To, IncludeLower and IncludeUpper are the legacy style, kept for
// older clause shapes. Both may be set on the same clause and are rendered
// independently; no combination is rejected.
type Range struct {
	field string

	gt  *string
	gte *string
	lt  *string
	lte *string

	// Deprecated bound style.
	from         *string
	to           *string
	includeLower bool
	includeUpper bool

	timeZone  string
	format    string
	boost     *float64
	queryName string
}

// RangeBounds is a read-only view of a Range's bounds for backends that
// evaluate the clause themselves. Nil pointers are unset bounds.
type RangeBounds struct {
	Gt, Gte, Lt, Lte *string
	From, To         *string
	IncludeLower     bool
	IncludeUpper     bool
}

// NewRange creates a range clause on field. The field name is not checked;
// an empty name is rendered as the empty key.
func NewRange(field string) *Range {
	return &Range{
		field:        field,
		includeLower: true,
		includeUpper: true,
	}
}

// Gt sets the exclusive lower bound.
func (r *Range) Gt(v string) *Range {
	r.gt = &v
	return r
}

// Gte sets the inclusive lower bound.
func (r *Range) Gte(v string) *Range {
	r.gte = &v
	return r
}

// Lt sets the exclusive upper bound.
func (r *Range) Lt(v string) *Range {
	r.lt = &v
	return r
}

// Lte sets the inclusive upper bound.
func (r *Range) Lte(v string) *Range {
	r.lte = &v
	return r
}

// From sets the legacy lower bound.
//
// Deprecated: use Gt or Gte.
func (r *Range) From(v string) *Range {
	r.from = &v
	return r
}

// To sets the legacy upper bound.
//
// Deprecated: use Lt or Lte.
func (r *Range) To(v string) *Range {
	r.to = &v
	return r
}

// IncludeLower controls whether the From bound is inclusive. It has no
// effect unless From is set.
//
// Deprecated: use Gt or Gte.
func (r *Range) IncludeLower(include bool) *Range {
	r.includeLower = include
	return r
}

// IncludeUpper controls whether the To bound is inclusive. It has no
// effect unless To is set.
//
// Deprecated: use Lt or Lte.
func (r *Range) IncludeUpper(include bool) *Range {
	r.includeUpper = include
	return r
}

// TimeZone sets the time zone used to interpret date bounds.
// An empty string clears it.
func (r *Range) TimeZone(tz string) *Range {
	r.timeZone = tz
	return r
}

// Format overrides the date format used to parse the bounds.
// An empty string clears it.
func (r *Range) Format(format string) *Range {
	r.format = format
	return r
}

// Boost sets the relative scoring weight of the clause.
func (r *Range) Boost(boost float64) *Range {
	r.boost = &boost
	return r
}

// QueryName tags the clause so responses can report which clauses matched.
// An empty string clears it.
func (r *Range) QueryName(name string) *Range {
	r.queryName = name
	return r
}

// Field returns the field the range applies to.
func (r *Range) Field() string {
	return r.field
}

// Name returns the query name, or "" when unset.
func (r *Range) Name() string {
	return r.queryName
}

// Bounds returns a copy of the configured bounds. Writing through the
// returned pointers does not change the clause.
func (r *Range) Bounds() RangeBounds {
	return RangeBounds{
		Gt:           copyBound(r.gt),
		Gte:          copyBound(r.gte),
		Lt:           copyBound(r.lt),
		Lte:          copyBound(r.lte),
		From:         copyBound(r.from),
		To:           copyBound(r.to),
		IncludeLower: r.includeLower,
		IncludeUpper: r.includeUpper,
	}
}

func copyBound(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Source renders the clause:
//
//	{"range": {"<field>": {params...}, "_name": "<name>"}}
//
// The inclusivity flags are emitted whenever their legacy bound is set,
// even if they were never changed from the default.
//
// The time zone goes out under "tile_zone". Consumers of the existing wire
// format depend on that key, so it stays as is.
func (r *Range) Source() map[string]any {
	params := map[string]any{}

	if r.gt != nil {
		params["gt"] = *r.gt
	}
	if r.gte != nil {
		params["gte"] = *r.gte
	}
	if r.lt != nil {
		params["lt"] = *r.lt
	}
	if r.lte != nil {
		params["lte"] = *r.lte
	}
	if r.from != nil {
		params["from"] = *r.from
		params["include_lower"] = r.includeLower
	}
	if r.to != nil {
		params["to"] = *r.to
		params["include_upper"] = r.includeUpper
	}
	if r.timeZone != "" {
		params["tile_zone"] = r.timeZone
	}
	if r.format != "" {
		params["format"] = r.format
	}
	if r.boost != nil {
		params["boost"] = *r.boost
	}

	q := map[string]any{r.field: params}
	if r.queryName != "" {
		q["_name"] = r.queryName
	}

	return map[string]any{"range": q}
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (r *Range) MarshalJSON() ([]byte, error) {
	return ir.MarshalSorted(r.Source())
}
