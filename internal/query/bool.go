package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// Bool combines clauses with boolean occasions.
//
//   - must: every clause matches and contributes to the score
//   - filter: every clause matches, no scoring
//   - should: at least MinimumShouldMatch clauses match
//   - must_not: no clause matches
type Bool struct {
	must    []Clause
	filter  []Clause
	should  []Clause
	mustNot []Clause

	minimumShouldMatch *int
	boost              *float64
	queryName          string
}

func NewBool() *Bool {
	return &Bool{}
}

// Must appends clauses that must match.
func (b *Bool) Must(clauses ...Clause) *Bool {
	b.must = append(b.must, clauses...)
	return b
}

// Filter appends clauses that must match without affecting the score.
func (b *Bool) Filter(clauses ...Clause) *Bool {
	b.filter = append(b.filter, clauses...)
	return b
}

// Should appends optional clauses.
func (b *Bool) Should(clauses ...Clause) *Bool {
	b.should = append(b.should, clauses...)
	return b
}

// MustNot appends clauses that must not match.
func (b *Bool) MustNot(clauses ...Clause) *Bool {
	b.mustNot = append(b.mustNot, clauses...)
	return b
}

// MinimumShouldMatch sets how many should clauses must match.
func (b *Bool) MinimumShouldMatch(n int) *Bool {
	b.minimumShouldMatch = &n
	return b
}

// Boost sets the relative scoring weight of the clause.
func (b *Bool) Boost(boost float64) *Bool {
	b.boost = &boost
	return b
}

// QueryName tags the clause for matched-query reporting.
func (b *Bool) QueryName(name string) *Bool {
	b.queryName = name
	return b
}

// Occasions returns the clause lists. The slices are shared with the
// builder and must not be modified.
func (b *Bool) Occasions() (must, filter, should, mustNot []Clause) {
	return b.must, b.filter, b.should, b.mustNot
}

// MinimumShouldMatchValue reports the configured minimum, if any.
func (b *Bool) MinimumShouldMatchValue() (int, bool) {
	if b.minimumShouldMatch == nil {
		return 0, false
	}
	return *b.minimumShouldMatch, true
}

// Name returns the query name, or "" when unset.
func (b *Bool) Name() string { return b.queryName }

// Source renders the bool clause. Empty occasions are omitted.
func (b *Bool) Source() map[string]any {
	params := map[string]any{}
	if len(b.must) > 0 {
		params["must"] = sources(b.must)
	}
	if len(b.filter) > 0 {
		params["filter"] = sources(b.filter)
	}
	if len(b.should) > 0 {
		params["should"] = sources(b.should)
	}
	if len(b.mustNot) > 0 {
		params["must_not"] = sources(b.mustNot)
	}
	if b.minimumShouldMatch != nil {
		params["minimum_should_match"] = *b.minimumShouldMatch
	}
	if b.boost != nil {
		params["boost"] = *b.boost
	}
	if b.queryName != "" {
		params["_name"] = b.queryName
	}
	return map[string]any{"bool": params}
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (b *Bool) MarshalJSON() ([]byte, error) {
	return ir.MarshalSorted(b.Source())
}
