package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/esdsl/internal/ir"
	"github.com/roach88/esdsl/internal/loader"
	"github.com/roach88/esdsl/internal/query"
	"github.com/roach88/esdsl/internal/store"
	"github.com/roach88/esdsl/internal/testutil"
)

// Harness is the scenario execution environment.
type Harness struct {
	store *store.Store
	index string
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Execution flow:
// 1. Create fresh in-memory database
// 2. Index inline documents, then the documents file
// 3. Run each step and evaluate its expectations
//
// Errors returned by Run are setup failures; failed expectations are
// reported through Result.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	// Create fresh in-memory SQLite database
	st, err := store.Open(":memory:",
		store.WithIDGenerator(testutil.NewSequentialIDGenerator("doc")),
		store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{store: st, index: scenario.Index}
	if h.index == "" {
		h.index = DefaultIndex
	}

	if err := h.indexDocuments(ctx, scenario); err != nil {
		return nil, err
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		trace := h.runStep(ctx, step)
		result.Steps = append(result.Steps, trace)
		for _, msg := range evaluateExpect(step, trace) {
			result.AddError(fmt.Sprintf("step %d (%s): %s", i, step.Name, msg))
		}
	}

	return result, nil
}

func (h *Harness) indexDocuments(ctx context.Context, scenario *Scenario) error {
	docs := scenario.Documents
	if scenario.DocumentsFile != "" {
		fromFile, err := loader.LoadDocuments(scenario.DocumentsFile)
		if err != nil {
			return fmt.Errorf("failed to load documents: %w", err)
		}
		docs = append(append([]map[string]any{}, docs...), fromFile...)
	}

	for i, doc := range docs {
		if _, err := h.store.Index(ctx, h.index, doc); err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
	}
	return nil
}

// runStep parses and executes one step. Parse and search failures are
// recorded in the trace rather than returned.
func (h *Harness) runStep(ctx context.Context, step Step) StepTrace {
	trace := StepTrace{Name: step.Name, Hits: []HitTrace{}}

	req, err := parseStepQuery(step.Query)
	if err != nil {
		trace.Error = err.Error()
		return trace
	}

	body, err := query.Marshal(req)
	if err != nil {
		trace.Error = err.Error()
		return trace
	}
	trace.Query = string(body)

	res, err := h.store.Search(ctx, h.index, req)
	if err != nil {
		trace.Error = err.Error()
		return trace
	}

	trace.Fingerprint = res.QueryFingerprint
	trace.Total = res.Total
	for _, hit := range res.Hits {
		trace.Hits = append(trace.Hits, HitTrace{ID: hit.ID, MatchedQueries: hit.MatchedQueries})
	}
	return trace
}

// parseStepQuery accepts a request or a bare clause, like query files.
func parseStepQuery(doc map[string]any) (*query.Request, error) {
	normalized, err := ir.Normalize(doc)
	if err != nil {
		return nil, err
	}
	obj := normalized.(map[string]any)

	if _, ok := obj["query"]; ok {
		return query.ParseRequest(obj)
	}
	clause, err := query.Parse(obj)
	if err != nil {
		return nil, err
	}
	return query.NewRequest(clause), nil
}
