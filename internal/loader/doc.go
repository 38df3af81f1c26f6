// Package loader reads query and document files for the CLI.
//
// Query files may be YAML (.yaml, .yml), JSON (.json) or CUE (.cue). A query
// file holds either a search request (a document with a "query" key) or a
// bare clause. Document files hold a YAML or JSON list of objects, or one
// JSON object per line (.jsonl, .ndjson).
//
// Usage:
//
//	req, err := loader.LoadQuery("queries/adults.cue")
//	docs, err := loader.LoadDocuments("testdata/people.jsonl")
package loader
