package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario defines one engine conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is the input query text. May be empty when the scenario
	// exercises scaffolding.
	Query string `yaml:"query"`

	// Expect holds validation and analysis expectations for Query.
	Expect ExpectClause `yaml:"expect"`

	// Rewrites are applied to Query in order after the expectations are
	// checked. Each step is also checked for idempotence.
	Rewrites []RewriteStep `yaml:"rewrites,omitempty"`
}

// ExpectClause specifies expected validation and analysis results.
// Nil/empty fields are not checked.
type ExpectClause struct {
	// Valid is the expected validation verdict.
	Valid *bool `yaml:"valid,omitempty"`

	// Error is the expected validation diagnostic, exact match.
	Error string `yaml:"error,omitempty"`

	// Type is the expected query type (SELECT, ASK, ...).
	Type string `yaml:"type,omitempty"`

	// Warnings lists warnings that must each be present (subset match).
	Warnings []string `yaml:"warnings,omitempty"`

	// Features maps feature names (subquery, union, optional, group_by,
	// aggregate) to their expected values.
	Features map[string]bool `yaml:"features,omitempty"`

	// MinScore is the minimum expected complexity score.
	MinScore *int `yaml:"min_score,omitempty"`
}

// RewriteStep applies one rewriter operation to the scenario query.
type RewriteStep struct {
	// Op is the operation: "prefix", "limit", or "scaffold".
	Op string `yaml:"op"`

	// Prefix and URI parameterize the "prefix" operation.
	Prefix string `yaml:"prefix,omitempty"`
	URI    string `yaml:"uri,omitempty"`

	// Contains lists substrings the rewritten query must contain.
	Contains []string `yaml:"contains,omitempty"`
}

// Rewrite operation names.
const (
	OpPrefix   = "prefix"
	OpLimit    = "limit"
	OpScaffold = "scaffold"
)

// LoadScenario reads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if s.Name == "" {
		return nil, fmt.Errorf("scenario %s: name is required", path)
	}
	for _, step := range s.Rewrites {
		switch step.Op {
		case OpPrefix, OpLimit, OpScaffold:
		default:
			return nil, fmt.Errorf("scenario %s: unknown rewrite op %q", path, step.Op)
		}
		if step.Op == OpPrefix && (step.Prefix == "" || step.URI == "") {
			return nil, fmt.Errorf("scenario %s: prefix rewrite requires prefix and uri", path)
		}
	}
	return &s, nil
}
