package harness

// HitTrace records one hit of a step.
type HitTrace struct {
	ID             string   `json:"id"`
	MatchedQueries []string `json:"matched_queries,omitempty"`
}

// StepTrace records what a step ran and what it returned.
type StepTrace struct {
	Name        string     `json:"name"`
	Query       string     `json:"query,omitempty"` // canonical JSON of the executed request
	Fingerprint string     `json:"fingerprint,omitempty"`
	Total       int        `json:"total"`
	Hits        []HitTrace `json:"hits"`
	Error       string     `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step met its expectations.
	Pass bool `json:"pass"`

	// Steps holds one trace per executed step, in order.
	Steps []StepTrace `json:"steps"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
