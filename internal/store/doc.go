// Package store provides a SQLite-backed document store that evaluates
// query clauses locally.
//
// Documents are kept as key-sorted JSON, one row per (index, id). Searches
// compile clauses with querysql into parameterized SQL over json_extract,
// so a query can be exercised end to end without a search cluster.
//
// # Deterministic Results
//
//   - Hits are ordered by id COLLATE BINARY ASC
//   - Documents are stored with sorted keys and their strings untouched;
//     the content hash is taken over the NFC canonical form
//
// # Scoring
//
// The store does not score. Boost values are accepted and ignored, and
// hits carry the names of the named clauses they matched instead of a
// relevance score.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
