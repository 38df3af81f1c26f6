package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDGenerator generates document ids in a fixed sequence:
// prefix-001, prefix-002, ...
//
// Zero-padded ids sort by index order under COLLATE BINARY, so search
// results in tests follow indexing order and golden snapshots stay stable.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SequentialIDGenerator struct {
	mu     sync.Mutex
	prefix string
	seq    int
}

// NewSequentialIDGenerator creates a generator whose first id is prefix-001.
func NewSequentialIDGenerator(prefix string) *SequentialIDGenerator {
	return &SequentialIDGenerator{prefix: prefix}
}

// Generate returns the next id in the sequence.
func (g *SequentialIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%03d", g.prefix, g.seq)
}

// Reset restarts the sequence. The next call to Generate returns prefix-001.
func (g *SequentialIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}

// FixedIDGenerator returns the same id every time.
//
// Indexing twice with a FixedIDGenerator overwrites the first document,
// which is how tests exercise replacement without passing "_id".
type FixedIDGenerator struct {
	id string
}

// NewFixedIDGenerator creates a generator that always returns id.
func NewFixedIDGenerator(id string) FixedIDGenerator {
	return FixedIDGenerator{id: id}
}

// Generate returns the fixed id.
func (g FixedIDGenerator) Generate() string {
	return g.id
}
