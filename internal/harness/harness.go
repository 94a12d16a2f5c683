package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/haskins/sparqline/internal/querytext"
)

// Report collects the outcome of running one scenario.
type Report struct {
	// Scenario is the scenario name.
	Scenario string

	// Result is the validation verdict for the input query.
	Result querytext.Result

	// Analysis is the analysis of the input query.
	Analysis querytext.Analysis

	// Final is the query text after all rewrite steps.
	Final string

	// Failures lists every expectation that did not hold. Empty means
	// the scenario passed.
	Failures []string
}

// Run executes a scenario against the engine. Expectation mismatches are
// recorded in the report's Failures; an error is returned only for
// malformed scenarios.
func (s *Scenario) Run() (*Report, error) {
	report := &Report{
		Scenario: s.Name,
		Result:   querytext.Validate(s.Query),
		Analysis: querytext.Analyze(s.Query),
		Final:    s.Query,
	}

	s.checkExpect(report)
	for i, step := range s.Rewrites {
		next, err := applyRewrite(step, report.Final)
		if err != nil {
			return nil, fmt.Errorf("scenario %s, rewrite %d: %w", s.Name, i, err)
		}
		again, err := applyRewrite(step, next)
		if err != nil {
			return nil, fmt.Errorf("scenario %s, rewrite %d: %w", s.Name, i, err)
		}
		if again != next {
			report.fail("rewrite %d (%s) is not idempotent", i, step.Op)
		}
		for _, want := range step.Contains {
			if !strings.Contains(next, want) {
				report.fail("rewrite %d (%s): output missing %q", i, step.Op, want)
			}
		}
		report.Final = next
	}
	return report, nil
}

func (s *Scenario) checkExpect(r *Report) {
	e := s.Expect
	if e.Valid != nil && r.Result.Valid != *e.Valid {
		r.fail("valid = %t, want %t", r.Result.Valid, *e.Valid)
	}
	if e.Error != "" && r.Result.Error != e.Error {
		r.fail("error = %q, want %q", r.Result.Error, e.Error)
	}
	if e.Type != "" && string(r.Analysis.Type) != e.Type {
		r.fail("type = %s, want %s", r.Analysis.Type, e.Type)
	}
	for _, want := range e.Warnings {
		if !containsString(r.Result.Warnings, want) {
			r.fail("missing warning %q", want)
		}
	}
	for name, want := range e.Features {
		got, err := featureByName(r.Analysis.Features, name)
		if err != nil {
			r.fail("%v", err)
			continue
		}
		if got != want {
			r.fail("feature %s = %t, want %t", name, got, want)
		}
	}
	if e.MinScore != nil && r.Analysis.Score < *e.MinScore {
		r.fail("score = %d, want at least %d", r.Analysis.Score, *e.MinScore)
	}
}

func (r *Report) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

func applyRewrite(step RewriteStep, query string) (string, error) {
	switch step.Op {
	case OpPrefix:
		return querytext.AddPrefix(step.Prefix, step.URI, query), nil
	case OpLimit:
		return querytext.AddLimit(query), nil
	case OpScaffold:
		return querytext.AddBasicStructure(query), nil
	default:
		return "", fmt.Errorf("unknown rewrite op %q", step.Op)
	}
}

func featureByName(f querytext.Features, name string) (bool, error) {
	switch name {
	case "subquery":
		return f.Subquery, nil
	case "union":
		return f.Union, nil
	case "optional":
		return f.Optional, nil
	case "group_by":
		return f.GroupBy, nil
	case "aggregate":
		return f.Aggregate, nil
	default:
		return false, fmt.Errorf("unknown feature %q", name)
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

// RunWithGolden runs a scenario, fails the test on any expectation
// mismatch, and compares the formatted final query against the
// scenario's golden file under testdata/golden.
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	report, err := s.Run()
	if err != nil {
		t.Fatalf("running scenario %s: %v", s.Name, err)
	}
	for _, f := range report.Failures {
		t.Errorf("scenario %s: %s", s.Name, f)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, []byte(querytext.Format(report.Final)))
}
