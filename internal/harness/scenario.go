package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/pcconf/internal/catalog"
	"github.com/roach88/pcconf/internal/session"
)

// Scenario is a scripted configuration session.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalog is a catalog path (CSV directory, YAML file or CUE directory).
	// Relative paths resolve against the scenario file's directory. Empty
	// selects the built-in sample catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// Strategy is "domain" (default) or "solution".
	Strategy string `yaml:"strategy,omitempty"`

	// Budget is an optional price ceiling such as "900" or "899.99".
	Budget string `yaml:"budget,omitempty"`

	// SessionID fixes the session id. Defaults to "test-session-default".
	SessionID string `yaml:"session_id,omitempty"`

	// Flow is the sequence of user actions.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// FlowStep is one user action: a choice or a restart.
type FlowStep struct {
	Choose  string        `yaml:"choose,omitempty"`
	Restart bool          `yaml:"restart,omitempty"`
	Expect  *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause checks the outcome of a flow step.
type ExpectClause struct {
	// Outcome is one of ok, rejected, failed or terminal.
	Outcome string `yaml:"outcome"`

	// Offered, if set, must equal the candidates offered before the step.
	Offered []string `yaml:"offered,omitempty"`
}

// Step outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeTerminal = "terminal"
)

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind, ID and Category select steps (trace_contains, trace_count).
	Kind     string `yaml:"kind,omitempty"`
	ID       string `yaml:"id,omitempty"`
	Category string `yaml:"category,omitempty"`

	// Count is the expected number of matching steps (trace_count).
	Count int `yaml:"count,omitempty"`

	// Steps is the expected order as "kind" or "kind:id" (trace_order).
	Steps []string `yaml:"steps,omitempty"`

	// State, Total and Parts describe the session's end (session_state).
	// Parts is keyed by category name, case-insensitive.
	State string            `yaml:"state,omitempty"`
	Total string            `yaml:"total,omitempty"`
	Parts map[string]string `yaml:"parts,omitempty"`

	// Table, Where and Expect query the store (final_state).
	Table  string         `yaml:"table,omitempty"`
	Where  map[string]any `yaml:"where,omitempty"`
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertSessionState  = "session_state"
	AssertFinalState    = "final_state"
)

// LoadScenario reads and parses a scenario YAML file. A relative catalog
// path resolves against the file's directory.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file, resolving
// a relative catalog path against basePath.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos) or is missing required fields.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) && basePath != "" {
		scenario.Catalog = filepath.Join(basePath, scenario.Catalog)
	}
	if scenario.Catalog != "" {
		if _, err := os.Stat(scenario.Catalog); err != nil {
			return nil, fmt.Errorf("invalid scenario: catalog not found: %s", scenario.Catalog)
		}
	}

	return scenario, nil
}

// ParseScenario parses and validates scenario YAML. The catalog path is
// left as written.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := session.NewStrategy(s.Strategy, nil); err != nil {
		return err
	}
	if s.Budget != "" {
		if m, err := catalog.ParseMoney(s.Budget); err != nil {
			return fmt.Errorf("budget: %w", err)
		} else if m < 0 {
			return fmt.Errorf("budget must not be negative, got %s", s.Budget)
		}
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if (step.Choose == "") == !step.Restart {
			return fmt.Errorf("flow[%d]: exactly one of choose or restart is required", i)
		}
		if step.Expect != nil {
			switch step.Expect.Outcome {
			case OutcomeOK, OutcomeRejected, OutcomeFailed, OutcomeTerminal:
			case "":
				return fmt.Errorf("flow[%d].expect: outcome is required", i)
			default:
				return fmt.Errorf("flow[%d].expect: unknown outcome %q", i, step.Expect.Outcome)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Steps) == 0 {
			return fmt.Errorf("assertions[%d]: steps list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertSessionState:
		if a.State == "" && a.Total == "" && len(a.Parts) == 0 {
			return fmt.Errorf("assertions[%d]: state, total or parts is required for session_state", index)
		}
		for name := range a.Parts {
			if _, err := catalog.ParseCategory(name); err != nil {
				return fmt.Errorf("assertions[%d]: %w", index, err)
			}
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
