package harness

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioOutcome is the result of one scenario file in a suite run.
type ScenarioOutcome struct {
	Path   string  `json:"path"`
	Name   string  `json:"name"`
	Result *Result `json:"result,omitempty"`

	// Err is set when the scenario could not be loaded or set up.
	Err string `json:"error,omitempty"`
}

// Passed reports whether the scenario loaded, ran and passed.
func (o ScenarioOutcome) Passed() bool {
	return o.Err == "" && o.Result != nil && o.Result.Pass
}

// SuiteResult summarizes a directory of scenarios.
type SuiteResult struct {
	Scenarios []ScenarioOutcome `json:"scenarios"`
	Passed    int               `json:"passed"`
	Failed    int               `json:"failed"`
}

// OK reports whether every scenario passed.
func (s *SuiteResult) OK() bool { return s.Failed == 0 }

// FindScenarios returns the .yaml and .yml files in dir, sorted.
func FindScenarios(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("scenario directory: %w", err)
	}
	if !info.IsDir() {
		return []string{dir}, nil
	}

	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

// RunDir loads and runs every scenario in dir whose name contains filter.
// A scenario that fails to load counts as failed; it does not stop the run.
func RunDir(ctx context.Context, dir, filter string) (*SuiteResult, error) {
	files, err := FindScenarios(dir)
	if err != nil {
		return nil, err
	}

	suite := &SuiteResult{Scenarios: []ScenarioOutcome{}}
	for _, path := range files {
		outcome := ScenarioOutcome{Path: path, Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))}

		scenario, err := LoadScenario(path)
		if err != nil {
			outcome.Err = err.Error()
		} else {
			outcome.Name = scenario.Name
			if filter != "" && !strings.Contains(scenario.Name, filter) {
				continue
			}
			result, err := RunContext(ctx, scenario)
			if err != nil {
				outcome.Err = err.Error()
			}
			outcome.Result = result
		}

		if outcome.Err != "" && filter != "" && !strings.Contains(outcome.Name, filter) {
			continue
		}
		if outcome.Passed() {
			suite.Passed++
		} else {
			suite.Failed++
		}
		suite.Scenarios = append(suite.Scenarios, outcome)
	}
	return suite, nil
}
