package harness

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/esdsl/internal/ir"
)

// toCanonicalMap converts a result to a document tree for canonical JSON.
func toCanonicalMap(name string, result *Result) map[string]any {
	steps := make([]any, len(result.Steps))
	for i, step := range result.Steps {
		hits := make([]any, len(step.Hits))
		for j, hit := range step.Hits {
			h := map[string]any{"id": hit.ID}
			if len(hit.MatchedQueries) > 0 {
				h["matched_queries"] = hit.MatchedQueries
			}
			hits[j] = h
		}

		s := map[string]any{
			"name":  step.Name,
			"total": step.Total,
			"hits":  hits,
		}
		if step.Query != "" {
			s["query"] = step.Query
		}
		if step.Fingerprint != "" {
			s["fingerprint"] = step.Fingerprint
		}
		if step.Error != "" {
			s["error"] = step.Error
		}
		steps[i] = s
	}

	return map[string]any{
		"scenario_name": name,
		"steps":         steps,
	}
}

// RunWithGolden executes a scenario, fails the test on unmet expectations,
// and compares the step traces against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(context.Background(), scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	traceJSON, err := ir.MarshalCanonical(toCanonicalMap(scenario.Name, result))
	if err != nil {
		return err
	}

	// Compare with golden file using goldie
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
