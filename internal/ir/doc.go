// Package ir provides the value layer shared by the query builders, the
// local store and the CLI.
//
// Query documents and indexed documents are plain Go trees built from
// map[string]any, []any, string, bool, int64, float64 and nil. This package
// turns those trees into canonical JSON and computes content fingerprints.
// ir imports nothing internal.
//
// Key design constraints:
//   - Object keys are emitted in RFC 8785 order (UTF-16 code units)
//   - Strings are NFC normalized and never HTML escaped
//   - Floats must be finite; integral floats print without a fraction
package ir
