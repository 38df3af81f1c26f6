package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// Clause is a self-contained query fragment that renders itself as part of
// a larger query document.
//
// The interface is open: sibling clause types outside this package compose
// with the built-in ones as long as Source returns a document tree of
// map[string]any, []any, string, bool and numbers.
type Clause interface {
	Source() map[string]any
}

// Marshal renders a clause as JSON with sorted keys. Strings are written
// exactly as set; only Fingerprint normalizes them.
func Marshal(c Clause) ([]byte, error) {
	return ir.MarshalSorted(c.Source())
}

// Fingerprint returns a stable content hash of the clause's canonical form.
// Clauses that render the same document share a fingerprint.
func Fingerprint(c Clause) (string, error) {
	return ir.Fingerprint(ir.DomainQuery, c.Source())
}

// sources renders a list of clauses for a bool occasion.
func sources(clauses []Clause) []any {
	out := make([]any, len(clauses))
	for i, c := range clauses {
		out[i] = c.Source()
	}
	return out
}
