package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/ranges.yaml")
	require.NoError(t, err)

	assert.Equal(t, "ranges", scenario.Name)
	assert.Equal(t, "people", scenario.Index)
	assert.Equal(t, filepath.Join("testdata", "scenarios", "people.jsonl"), scenario.DocumentsFile)
	require.Len(t, scenario.Steps, 5)
	assert.Equal(t, "modern bounds", scenario.Steps[0].Name)
	require.NotNil(t, scenario.Steps[0].Expect.Total)
	assert.Equal(t, 2, *scenario.Steps[0].Expect.Total)
	assert.Equal(t, []string{"b", "e"}, scenario.Steps[0].Expect.Hits)
	assert.Nil(t, scenario.Steps[1].Expect.Total, "unset total is not checked")
}

func TestLoadScenario_InlineDocuments(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/named_queries.yaml")
	require.NoError(t, err)

	assert.Empty(t, scenario.Index)
	require.Len(t, scenario.Documents, 3)
	assert.Equal(t, "active", scenario.Documents[0]["status"])
	assert.Equal(t, []string{"adult", "retired"}, scenario.Steps[0].Expect.Matched["doc-003"])
	assert.Equal(t, "unknown clause type", scenario.Steps[2].Expect.Error)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "unknown field",
			content: "name: x\ndescription: y\nstep: []\n",
			want:    "field step not found",
		},
		{
			name:    "missing name",
			content: "description: y\nsteps:\n  - name: s\n    query: {match_all: {}}\n",
			want:    "name is required",
		},
		{
			name:    "missing description",
			content: "name: x\nsteps:\n  - name: s\n    query: {match_all: {}}\n",
			want:    "description is required",
		},
		{
			name:    "no steps",
			content: "name: x\ndescription: y\n",
			want:    "steps list is required",
		},
		{
			name:    "step without query",
			content: "name: x\ndescription: y\nsteps:\n  - name: s\n",
			want:    "query is required",
		},
		{
			name:    "malformed yaml",
			content: "name: [unclosed\n",
			want:    "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
