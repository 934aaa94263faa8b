package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// projectRoot returns the project root directory.
// Tests run from the package directory; scenarios live at the root.
func projectRoot() string {
	root, _ := filepath.Abs("../..")
	return root
}

func scenarioPath(name string) string {
	return filepath.Join(projectRoot(), "testdata", "scenarios", name+".yaml")
}

// TestScenarioGoldens runs the checked-in scenarios and compares their
// canonical traces with testdata/golden. Regenerate with -update.
func TestScenarioGoldens(t *testing.T) {
	for _, name := range []string{
		"cheapest_build",
		"rejected_selection",
		"budget_restart",
		"over_budget",
	} {
		t.Run(name, func(t *testing.T) {
			scenario, err := LoadScenario(scenarioPath(name))
			require.NoError(t, err, "failed to load scenario %s", name)
			assert.Equal(t, name, scenario.Name, "scenario name mismatch")

			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario should pass: errors=%v", result.Errors)

			require.NoError(t, AssertGolden(t, scenario.Name, result))
		})
	}
}

func TestRunWithGolden(t *testing.T) {
	scenario, err := LoadScenario(scenarioPath("cheapest_build"))
	require.NoError(t, err)
	require.NoError(t, RunWithGolden(t, scenario))
}

func TestSnapshot_Shape(t *testing.T) {
	result := NewResult()
	result.SessionID = "s"
	result.Trace = []TraceEvent{
		{Seq: 1, Kind: "start", Category: "CPU", Offered: []string{"cpu-1"}, State: "awaiting_choice", Total: "0.00"},
		{Seq: 2, Kind: "reject", Category: "CPU", ID: "x", State: "awaiting_choice", Total: "0.00", Error: "bad"},
	}
	result.Final = FinalState{State: "awaiting_choice", Total: "0.00", Parts: map[string]string{}}

	data, err := Snapshot("shape", result)
	require.NoError(t, err)

	want := `{"final":{"state":"awaiting_choice","total":"0.00"},` +
		`"scenario_name":"shape","session_id":"s","trace":[` +
		`{"category":"CPU","kind":"start","offered":["cpu-1"],"seq":1,"state":"awaiting_choice","total":"0.00"},` +
		`{"category":"CPU","error":"bad","id":"x","kind":"reject","seq":2,"state":"awaiting_choice","total":"0.00"}]}`
	assert.Equal(t, want, string(data))
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}
