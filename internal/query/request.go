package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// DefaultSize is the page size used when a request does not set one.
const DefaultSize = 10

// Request is a search request body: a query plus paging.
type Request struct {
	query Clause
	from  *int
	size  *int
}

// NewRequest wraps q in a request body. A nil query matches all documents.
func NewRequest(q Clause) *Request {
	return &Request{query: q}
}

// From sets the offset of the first hit.
func (r *Request) From(n int) *Request {
	r.from = &n
	return r
}

// Size sets the maximum number of hits.
func (r *Request) Size(n int) *Request {
	r.size = &n
	return r
}

// Query returns the request query, substituting match_all for nil.
func (r *Request) Query() Clause {
	if r.query == nil {
		return NewMatchAll()
	}
	return r.query
}

// Offset returns the configured offset, 0 when unset.
func (r *Request) Offset() int {
	if r.from == nil || *r.from < 0 {
		return 0
	}
	return *r.from
}

// Limit returns the configured size, DefaultSize when unset.
func (r *Request) Limit() int {
	if r.size == nil || *r.size < 0 {
		return DefaultSize
	}
	return *r.size
}

// Source renders {"query": ..., "from"?: n, "size"?: n}.
func (r *Request) Source() map[string]any {
	body := map[string]any{"query": r.Query().Source()}
	if r.from != nil {
		body["from"] = *r.from
	}
	if r.size != nil {
		body["size"] = *r.size
	}
	return body
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (r *Request) MarshalJSON() ([]byte, error) {
	return ir.MarshalSorted(r.Source())
}
