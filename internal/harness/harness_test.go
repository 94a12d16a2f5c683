package harness

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioFixtures(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario fixtures found")

	for _, path := range paths {
		s, err := LoadScenario(path)
		require.NoError(t, err, path)
		t.Run(s.Name, func(t *testing.T) {
			RunWithGolden(t, s)
		})
	}
}

func TestLoadScenarioValidation(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "scenario.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	t.Run("missing name", func(t *testing.T) {
		_, err := LoadScenario(write(t, "query: \"ASK WHERE { ?s ?p ?o }\"\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("unknown op", func(t *testing.T) {
		_, err := LoadScenario(write(t, "name: bad\nrewrites:\n  - op: frobnicate\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown rewrite op "frobnicate"`)
	})

	t.Run("prefix without uri", func(t *testing.T) {
		_, err := LoadScenario(write(t, "name: bad\nrewrites:\n  - op: prefix\n    prefix: rdf\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires prefix and uri")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadScenario(write(t, "name: [unterminated\n"))
		require.Error(t, err)
	})
}

func TestRunRecordsExpectationFailures(t *testing.T) {
	valid := true
	s := &Scenario{
		Name:  "mismatch",
		Query: "",
		Expect: ExpectClause{
			Valid: &valid,
			Error: "something else",
			Type:  "SELECT",
		},
	}

	report, err := s.Run()
	require.NoError(t, err)
	assert.Len(t, report.Failures, 3)
}

func TestRunUnknownFeatureName(t *testing.T) {
	s := &Scenario{
		Name:   "bad-feature",
		Query:  "SELECT ?s WHERE { ?s ?p ?o } LIMIT 1",
		Expect: ExpectClause{Features: map[string]bool{"projection": true}},
	}

	report, err := s.Run()
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], `unknown feature "projection"`)
}

func TestRunRewriteContainsFailure(t *testing.T) {
	s := &Scenario{
		Name:  "wrong-limit",
		Query: "SELECT ?s WHERE { ?s ?p ?o }",
		Rewrites: []RewriteStep{
			{Op: OpLimit, Contains: []string{"LIMIT 50"}},
		},
	}

	report, err := s.Run()
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], `missing "LIMIT 50"`)
	assert.Contains(t, report.Final, "LIMIT 100")
}

func TestRunAppliesRewritesInOrder(t *testing.T) {
	s := &Scenario{
		Name:  "scaffold-then-limit",
		Query: "   ",
		Rewrites: []RewriteStep{
			{Op: OpScaffold},
			{Op: OpLimit},
		},
	}

	report, err := s.Run()
	require.NoError(t, err)
	assert.Empty(t, report.Failures)
	assert.True(t, strings.HasPrefix(report.Final, "PREFIX rdf:"))
	assert.Equal(t, 1, strings.Count(report.Final, "LIMIT 100"))
}

func TestRunRejectsUnknownOp(t *testing.T) {
	s := &Scenario{
		Name:     "bad-op",
		Query:    "ASK WHERE { ?s ?p ?o }",
		Rewrites: []RewriteStep{{Op: "frobnicate"}},
	}

	_, err := s.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown rewrite op "frobnicate"`)
}
