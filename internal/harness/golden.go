package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/decisiongraph/internal/domain"
)

// TraceSnapshot captures the outcome of a scenario execution.
// It is serialized as canonical JSON for deterministic comparison.
type TraceSnapshot struct {
	ScenarioName string       `json:"scenario_name"`
	Trace        []TraceEvent `json:"trace"`
	Lint         []string     `json:"lint"`
}

func newSnapshot(name string, result *Result) TraceSnapshot {
	lint := make([]string, 0, len(result.Lint.Violations))
	for _, v := range result.Lint.Violations {
		lint = append(lint, v.Code)
	}
	return TraceSnapshot{ScenarioName: name, Trace: result.Trace, Lint: lint}
}

// Snapshot renders result as the canonical JSON stored in golden files.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	return domain.MarshalCanonical(newSnapshot(scenarioName, result))
}

// RunWithGolden executes a scenario and compares its trace against a golden
// file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the trace doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	traceJSON, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, traceJSON)

	return nil
}
