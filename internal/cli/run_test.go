package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRejectsInvalidQueryBeforeSending(t *testing.T) {
	requested := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer server.Close()

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("SELECT ?s"))
	cmd.SetArgs([]string{server.URL})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E103]")
	assert.False(t, requested, "invalid queries must not reach the endpoint")
}

func TestRunPrintsResultTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/sparql-results+json")
		fmt.Fprint(w, `{
			"head": {"vars": ["name", "age"]},
			"results": {"bindings": [
				{"name": {"type": "literal", "value": "alice"}, "age": {"type": "literal", "value": "30"}},
				{"name": {"type": "literal", "value": "bob"}}
			]}
		}`)
	}))
	defer server.Close()

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("SELECT ?name ?age WHERE { ?p ?x ?y } LIMIT 10"))
	cmd.SetArgs([]string{server.URL})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "name")
	assert.Contains(t, output, "alice")
	assert.Contains(t, output, "bob")
	assert.Contains(t, output, "2 row(s) in")
}

func TestRunEndpointError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "malformed query", http.StatusBadRequest)
	}))
	defer server.Close()

	buf := &bytes.Buffer{}
	cmd := NewRunCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetIn(strings.NewReader("ASK WHERE { ?s ?p ?o }"))
	cmd.SetArgs([]string{server.URL})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E008]")
	assert.Contains(t, err.Error(), "query execution failed")
}
