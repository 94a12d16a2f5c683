package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorMessage(t *testing.T) {
	err := NewExitError(ExitFailure, "query invalid")
	assert.Equal(t, "query invalid", err.Error())

	wrapped := WrapExitError(ExitCommandError, "opening store", errors.New("disk full"))
	assert.Equal(t, "opening store: disk full", wrapped.Error())
	assert.Equal(t, "disk full", wrapped.Unwrap().Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "boom")))
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "boom")))

	// ExitErrors survive wrapping.
	wrapped := fmt.Errorf("context: %w", NewExitError(ExitCommandError, "boom"))
	assert.Equal(t, ExitCommandError, GetExitCode(wrapped))

	// Plain errors default to failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}

func TestOutputFormatterSuccessJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Success(map[string]int{"count": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatterSuccessText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Success("SELECT ?s"))
	assert.Equal(t, "SELECT ?s\n", buf.String())
}

func TestOutputFormatterErrorJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error(ErrCodeEmptyQuery, "Query cannot be empty", nil))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeEmptyQuery, resp.Error.Code)
	assert.Equal(t, "Query cannot be empty", resp.Error.Message)
}

func TestOutputFormatterErrorText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf}

	require.NoError(t, f.Error(ErrCodeUnbalanced, "Unbalanced braces: 2 opening and 1 closing braces", nil))
	assert.Equal(t, "Error [E104]: Unbalanced braces: 2 opening and 1 closing braces\n", buf.String())
}

func TestOutputFormatterErrorTextVerboseDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Error(ErrCodeGeneric, "boom", "extra context"))
	assert.Contains(t, buf.String(), "Details: extra context")
}

func TestVerboseLog(t *testing.T) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}

	quiet := &OutputFormatter{Format: "text", Writer: out, ErrWriter: errOut}
	quiet.VerboseLog("should not appear")
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	verbose := &OutputFormatter{Format: "json", Writer: out, ErrWriter: errOut, Verbose: true}
	verbose.VerboseLog("processed %d file(s)", 2)
	assert.Empty(t, out.String(), "verbose output must not corrupt the data stream")
	assert.Equal(t, "processed 2 file(s)\n", errOut.String())
}

func TestMapValidationCode(t *testing.T) {
	tests := []struct {
		diagnostic string
		want       string
	}{
		{"Query cannot be empty", ErrCodeEmptyQuery},
		{"Query must start with SELECT, CONSTRUCT, ASK, or DESCRIBE", ErrCodeUnknownForm},
		{"SELECT query must include a WHERE clause", ErrCodeMissingWhere},
		{"CONSTRUCT query must include a WHERE clause", ErrCodeMissingWhere},
		{"Unbalanced braces: 1 opening and 0 closing braces", ErrCodeUnbalanced},
		{"Unclosed double quotes in query", ErrCodeUnclosedQuotes},
		{"Unclosed single quotes in query", ErrCodeUnclosedQuotes},
		{"something unexpected", ErrCodeGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, mapValidationCode(tt.diagnostic), tt.diagnostic)
	}
}
