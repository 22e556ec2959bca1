package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/decisiongraph/internal/config"
	"github.com/roach88/decisiongraph/internal/kernel"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy configures the advisory caller policy. Nil runs the
	// constitution alone.
	Policy *config.PolicyConfig `yaml:"policy,omitempty"`

	// Logs are applied in order, like a directory lint.
	Logs []LogStep `yaml:"logs"`

	Assertions []Assertion `yaml:"assertions"`
}

// LogStep is one graph log: inline ops for Graph, or a decision log File.
type LogStep struct {
	// Graph defaults to G:default for inline ops.
	Graph string `yaml:"graph,omitempty"`

	// File is a decision log path, resolved relative to the scenario file.
	File string `yaml:"file,omitempty"`

	// Ops are decision log operations in wire shape.
	Ops []map[string]any `yaml:"ops,omitempty"`
}

// Assertion validates events or final state.
type Assertion struct {
	// Type is one of event, rejected_count, lint, node_status, edge_status
	// or trace.
	Type string `yaml:"type"`

	// Op is the zero-based op index across all logs (event).
	Op int `yaml:"op,omitempty"`

	// Expect is "applied" or "rejected" (event).
	Expect string `yaml:"expect,omitempty"`

	// Codes are the expected violation codes in sorted order (event, lint).
	Codes []string `yaml:"codes,omitempty"`

	// Count is the expected number of rejected ops (rejected_count).
	Count int `yaml:"count,omitempty"`

	Node   string `yaml:"node,omitempty"`
	Edge   string `yaml:"edge,omitempty"`
	Status string `yaml:"status,omitempty"`

	// Path is the expected sequence of node ids (trace).
	Path []string `yaml:"path,omitempty"`

	// MaxDepth bounds the trace; zero uses the default depth.
	MaxDepth int `yaml:"max_depth,omitempty"`
}

// Assertion type constants.
const (
	AssertEvent         = "event"
	AssertRejectedCount = "rejected_count"
	AssertLint          = "lint"
	AssertNodeStatus    = "node_status"
	AssertEdgeStatus    = "edge_status"
	AssertTrace         = "trace"
)

// LoadScenario reads and parses a scenario YAML file. Log file paths are
// resolved relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	for i, step := range scenario.Logs {
		if step.File != "" && !filepath.IsAbs(step.File) {
			scenario.Logs[i].File = filepath.Join(base, step.File)
		}
	}

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

	if len(s.Logs) == 0 {
		return fmt.Errorf("logs list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Policy != nil {
		cfg := config.Defaults()
		cfg.Policy = *s.Policy
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("policy: %w", err)
		}
	}

	for i, step := range s.Logs {
		switch {
		case step.File != "" && (len(step.Ops) > 0 || step.Graph != ""):
			return fmt.Errorf("logs[%d]: file cannot be combined with graph or ops", i)
		case step.File != "":
			if _, err := os.Stat(step.File); os.IsNotExist(err) {
				return fmt.Errorf("logs[%d]: log file not found: %s", i, step.File)
			}
		case len(step.Ops) == 0:
			return fmt.Errorf("logs[%d]: ops or file is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEvent:
		if a.Op < 0 {
			return fmt.Errorf("assertions[%d]: op must be non-negative for event", index)
		}
		if a.Expect != string(kernel.EventApplied) && a.Expect != string(kernel.EventRejected) {
			return fmt.Errorf("assertions[%d]: expect must be applied or rejected for event", index)
		}
		if a.Expect == string(kernel.EventApplied) && len(a.Codes) > 0 {
			return fmt.Errorf("assertions[%d]: codes are only valid for rejected events", index)
		}
	case AssertRejectedCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for rejected_count", index)
		}
	case AssertLint:
	case AssertNodeStatus:
		if a.Node == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: node and status are required for node_status", index)
		}
	case AssertEdgeStatus:
		if a.Edge == "" || a.Status == "" {
			return fmt.Errorf("assertions[%d]: edge and status are required for edge_status", index)
		}
	case AssertTrace:
		if a.Node == "" {
			return fmt.Errorf("assertions[%d]: node is required for trace", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
