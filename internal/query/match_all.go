package query

import (
	"github.com/roach88/esdsl/internal/ir"
)

// MatchAll matches every document.
type MatchAll struct {
	boost *float64
}

func NewMatchAll() *MatchAll {
	return &MatchAll{}
}

// Boost sets the constant score given to every document.
func (m *MatchAll) Boost(boost float64) *MatchAll {
	m.boost = &boost
	return m
}

// Source renders {"match_all": {"boost"?}}.
func (m *MatchAll) Source() map[string]any {
	params := map[string]any{}
	if m.boost != nil {
		params["boost"] = *m.boost
	}
	return map[string]any{"match_all": params}
}

// MarshalJSON implements json.Marshaler with sorted keys.
func (m *MatchAll) MarshalJSON() ([]byte, error) {
	return ir.MarshalSorted(m.Source())
}
