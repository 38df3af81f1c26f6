package querysql

import "github.com/roach88/esdsl/internal/query"

// Named is a clause carrying a query name.
type Named struct {
	Name   string
	Clause query.Clause
}

// NamedClauses collects every named clause in q, pre-order. The store
// evaluates each one per hit to report matched queries.
func NamedClauses(q query.Clause) []Named {
	var out []Named
	collectNamed(q, &out)
	return out
}

func collectNamed(q query.Clause, out *[]Named) {
	switch clause := q.(type) {
	case *query.Range:
		if clause.Name() != "" {
			*out = append(*out, Named{Name: clause.Name(), Clause: clause})
		}
	case *query.Term:
		if clause.Name() != "" {
			*out = append(*out, Named{Name: clause.Name(), Clause: clause})
		}
	case *query.Bool:
		if clause.Name() != "" {
			*out = append(*out, Named{Name: clause.Name(), Clause: clause})
		}
		must, filter, should, mustNot := clause.Occasions()
		for _, group := range [][]query.Clause{must, filter, should, mustNot} {
			for _, sub := range group {
				collectNamed(sub, out)
			}
		}
	}
}
