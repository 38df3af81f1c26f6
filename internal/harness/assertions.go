package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// AssertionError is returned when an expectation fails.
type AssertionError struct {
	Field    string // "total", "hits", "matched", "error"
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %s", e.Field, e.Expected, e.Actual)
}

// evaluateExpect checks a step trace against its expectations and returns
// one message per failed assertion.
func evaluateExpect(step Step, trace StepTrace) []string {
	var failures []error

	if step.Expect.Error != "" {
		if trace.Error == "" {
			failures = append(failures, &AssertionError{
				Field:    "error",
				Expected: fmt.Sprintf("error containing %q", step.Expect.Error),
				Actual:   fmt.Sprintf("%d hit(s)", len(trace.Hits)),
			})
		} else if !strings.Contains(trace.Error, step.Expect.Error) {
			failures = append(failures, &AssertionError{
				Field:    "error",
				Expected: fmt.Sprintf("error containing %q", step.Expect.Error),
				Actual:   fmt.Sprintf("%q", trace.Error),
			})
		}
		return errorStrings(failures)
	}

	if trace.Error != "" {
		return []string{fmt.Sprintf("unexpected error: %s", trace.Error)}
	}

	if step.Expect.Total != nil && *step.Expect.Total != trace.Total {
		failures = append(failures, &AssertionError{
			Field:    "total",
			Expected: fmt.Sprintf("%d", *step.Expect.Total),
			Actual:   fmt.Sprintf("%d", trace.Total),
		})
	}

	ids := lo.Map(trace.Hits, func(h HitTrace, _ int) string { return h.ID })
	if step.Expect.Hits != nil && !slices.Equal(step.Expect.Hits, ids) {
		failures = append(failures, &AssertionError{
			Field:    "hits",
			Expected: fmt.Sprintf("%v", step.Expect.Hits),
			Actual:   fmt.Sprintf("%v", ids),
		})
	}

	byID := lo.SliceToMap(trace.Hits, func(h HitTrace) (string, []string) { return h.ID, h.MatchedQueries })
	for _, id := range lo.Keys(step.Expect.Matched) {
		want := step.Expect.Matched[id]
		got, ok := byID[id]
		if !ok {
			failures = append(failures, &AssertionError{
				Field:    "matched",
				Expected: fmt.Sprintf("hit %s matching %v", id, want),
				Actual:   "no such hit",
			})
			continue
		}
		if !slices.Equal(want, got) && !(len(want) == 0 && len(got) == 0) {
			failures = append(failures, &AssertionError{
				Field:    "matched",
				Expected: fmt.Sprintf("hit %s matching %v", id, want),
				Actual:   fmt.Sprintf("%v", got),
			})
		}
	}

	msgs := errorStrings(failures)
	slices.Sort(msgs)
	return msgs
}

func errorStrings(errs []error) []string {
	return lo.Map(errs, func(err error, _ int) string { return err.Error() })
}
