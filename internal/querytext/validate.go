package querytext

import (
	"fmt"
	"strings"
)

// Result reports the outcome of validating a query string.
//
// Invariant: when Valid is false, Error holds the first failing rule's
// diagnostic and Warnings may be empty; when Valid is true, Error is the
// empty string.
type Result struct {
	// Valid indicates the query passed every structural check.
	Valid bool `json:"valid"`

	// Error is the diagnostic for the first failed check.
	// Empty when Valid is true.
	Error string `json:"error,omitempty"`

	// Warnings lists non-fatal advisories, in detection order.
	// A valid query may still carry warnings.
	Warnings []string `json:"warnings"`
}

// Validate checks structural well-formedness of a query string.
//
// Rules are applied in order, short-circuiting on the first failure:
//
//  1. Empty or whitespace-only input is invalid.
//  2. The text must contain one of the four query forms (SELECT,
//     CONSTRUCT, ASK, DESCRIBE), checked in that priority order.
//  3. SELECT, CONSTRUCT, and ASK require a WHERE clause. DESCRIBE without
//     WHERE is a warning, not an error.
//  4. Opening and closing brace counts must match.
//  5. Double-quote count must be even.
//  6. Single-quote count must be even.
//
// A query that passes all checks is valid; absence of a LIMIT clause is
// then reported as a warning.
//
// Detection is purely lexical: a keyword inside a string literal or
// comment counts. Validate is a pure function with no side effects.
func Validate(query string) Result {
	query = Normalize(query)

	if strings.TrimSpace(query) == "" {
		return Result{Error: "Query cannot be empty"}
	}

	upper := strings.ToUpper(query)
	warnings := []string{}

	form := ""
	for _, f := range []string{"SELECT", "CONSTRUCT", "ASK", "DESCRIBE"} {
		if containsFold(upper, f) {
			form = f
			break
		}
	}
	if form == "" {
		return Result{Error: "Query must start with SELECT, CONSTRUCT, ASK, or DESCRIBE"}
	}

	if !containsFold(upper, "WHERE") {
		if form == "DESCRIBE" {
			warnings = append(warnings, "DESCRIBE query without WHERE clause might return large amounts of data")
		} else {
			return Result{Error: fmt.Sprintf("%s query must include a WHERE clause", form)}
		}
	}

	opening := strings.Count(query, "{")
	closing := strings.Count(query, "}")
	if opening != closing {
		return Result{Error: fmt.Sprintf("Unbalanced braces: %d opening and %d closing braces", opening, closing)}
	}

	if strings.Count(query, `"`)%2 != 0 {
		return Result{Error: "Unclosed double quotes in query"}
	}
	if strings.Count(query, "'")%2 != 0 {
		return Result{Error: "Unclosed single quotes in query"}
	}

	if !containsFold(upper, "LIMIT") {
		warnings = append(warnings, "Query does not have a LIMIT clause, which might return large result sets")
	}

	return Result{Valid: true, Warnings: warnings}
}
