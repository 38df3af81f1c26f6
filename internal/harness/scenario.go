package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a query conformance test.
type Scenario struct {
	// Name identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Index is the index documents are stored in. Defaults to "test".
	Index string `yaml:"index,omitempty"`

	// Documents are indexed before any step runs, in order.
	Documents []map[string]any `yaml:"documents,omitempty"`

	// DocumentsFile names a document file loaded after Documents.
	// Relative paths resolve against the scenario file's directory.
	DocumentsFile string `yaml:"documents_file,omitempty"`

	// Steps are the queries to run.
	Steps []Step `yaml:"steps"`
}

// Step runs one query and checks its result.
type Step struct {
	Name   string         `yaml:"name"`
	Query  map[string]any `yaml:"query"`
	Expect Expect         `yaml:"expect"`
}

// Expect describes the expected search result. Unset fields are not checked.
type Expect struct {
	// Total is the expected number of matches, ignoring paging.
	Total *int `yaml:"total,omitempty"`

	// Hits is the expected list of hit ids in result order.
	Hits []string `yaml:"hits,omitempty"`

	// Matched maps hit ids to their expected matched query names.
	Matched map[string][]string `yaml:"matched,omitempty"`

	// Error, when set, expects the query to fail with a message
	// containing this text.
	Error string `yaml:"error,omitempty"`
}

// DefaultIndex is used when a scenario does not name an index.
const DefaultIndex = "test"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the documents file relative to the scenario BEFORE validation
	if scenario.DocumentsFile != "" && !filepath.IsAbs(scenario.DocumentsFile) {
		scenario.DocumentsFile = filepath.Join(filepath.Dir(path), scenario.DocumentsFile)
	}

	// Validate required fields
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Name == "" {
			return fmt.Errorf("step %d: name is required", i)
		}
		if step.Query == nil {
			return fmt.Errorf("step %d (%s): query is required", i, step.Name)
		}
	}

	return nil
}
