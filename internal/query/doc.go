// Package query provides fluent builders for search engine query clauses.
//
// Every builder implements Clause: it renders itself as a nested
// map[string]any matching the engine's JSON query DSL. Builders are plain
// value holders. Setters mutate in place and return the receiver so calls
// chain, and Source is read-only, so it can be called any number of times.
//
// Example:
//
//	q := query.NewBool().
//	    Filter(query.NewRange("age").Gte("18").Lt("65")).
//	    Must(query.NewTerm("status", "active"))
//
//	body, err := query.Marshal(query.NewRequest(q).Size(20))
//
// Builders are not safe for concurrent mutation. Share a clause across
// goroutines only after it is fully configured.
//
// Parse turns a decoded query document back into clauses, so documents read
// from files or produced by Source round-trip through the builders.
package query
