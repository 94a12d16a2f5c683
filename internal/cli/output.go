package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Domain failure (invalid query, endpoint error, import rejected)
	ExitCommandError = 2 // Command error (missing files, bad flags, store not reachable)
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E101", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE definition files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path or dashboard not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeStore       = "E007" // Dashboard store error
	ErrCodeEndpoint    = "E008" // Endpoint execution error

	// Query validation errors
	ErrCodeEmptyQuery     = "E101" // Empty or whitespace-only query
	ErrCodeUnknownForm    = "E102" // No recognized query form
	ErrCodeMissingWhere   = "E103" // Required WHERE clause absent
	ErrCodeUnbalanced     = "E104" // Unbalanced braces
	ErrCodeUnclosedQuotes = "E105" // Unclosed quotes

	// Dashboard definition errors
	ErrCodeDefDescription   = "E111" // Missing description
	ErrCodeDefNoPanels      = "E112" // No panels defined
	ErrCodeDefPanelQuery    = "E113" // Panel query missing or invalid
	ErrCodeDefPanelKind     = "E114" // Unknown panel kind
	ErrCodeDefPanelEndpoint = "E115" // Panel endpoint missing
)

// mapValidationCode maps a querytext diagnostic to an error code.
// The engine reports errors as strings; the mapping keys off their
// stable phrasing.
func mapValidationCode(diagnostic string) string {
	switch {
	case diagnostic == "Query cannot be empty":
		return ErrCodeEmptyQuery
	case diagnostic == "Query must start with SELECT, CONSTRUCT, ASK, or DESCRIBE":
		return ErrCodeUnknownForm
	case strings.HasSuffix(diagnostic, "must include a WHERE clause"):
		return ErrCodeMissingWhere
	case strings.HasPrefix(diagnostic, "Unbalanced braces"):
		return ErrCodeUnbalanced
	case strings.HasPrefix(diagnostic, "Unclosed"):
		return ErrCodeUnclosedQuotes
	default:
		return ErrCodeGeneric
	}
}
