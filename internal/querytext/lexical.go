package querytext

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize returns the NFC-normalized form of the query text.
//
// Validate, Analyze, and Format normalize their input on entry so that
// visually identical queries (differing only in Unicode composition)
// produce identical results. Rewrite operations do NOT normalize: they
// must return the input byte-for-byte unchanged when idempotence applies.
func Normalize(query string) string {
	return norm.NFC.String(query)
}

// variablePattern matches a SPARQL variable token: "?" followed by one or
// more word characters.
var variablePattern = regexp.MustCompile(`\?\w+`)

// selectKeywordPattern matches SELECT as a whole word, any case.
var selectKeywordPattern = regexp.MustCompile(`(?i)\bSELECT\b`)

// aggregateFunctions are the aggregate call prefixes Analyze looks for.
// Matched against the uppercased text.
var aggregateFunctions = []string{"COUNT(", "SUM(", "AVG(", "MIN(", "MAX("}

// queryForms lists the four SPARQL query forms.
var queryForms = []string{"SELECT", "ASK", "DESCRIBE", "CONSTRUCT"}

// containsFold reports whether the uppercased haystack contains needle.
// needle must already be uppercase.
func containsFold(upper, needle string) bool {
	return strings.Contains(upper, needle)
}

// countTriplePatterns approximates the number of triple patterns by
// counting "." separators inside the outermost brace block that follows
// the first WHERE keyword.
//
// The walk is quote-aware: periods inside single- or double-quoted string
// literals are skipped, as are decimal points (a "." with a digit on both
// sides). Nested blocks (OPTIONAL, subqueries) are included; the count
// stops when the block that follows WHERE closes. Best-effort by design.
func countTriplePatterns(query string) int {
	upper := strings.ToUpper(query)
	whereIdx := strings.Index(upper, "WHERE")
	if whereIdx < 0 {
		return 0
	}
	openIdx := strings.IndexByte(query[whereIdx:], '{')
	if openIdx < 0 {
		return 0
	}
	start := whereIdx + openIdx + 1

	depth := 1
	count := 0
	var inSingle, inDouble bool
	for i := start; i < len(query); i++ {
		c := query[i]
		switch {
		case inDouble:
			if c == '"' {
				inDouble = false
			}
		case inSingle:
			if c == '\'' {
				inSingle = false
			}
		case c == '"':
			inDouble = true
		case c == '\'':
			inSingle = true
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return count
			}
		case c == '.':
			if !isDecimalPoint(query, i) {
				count++
			}
		}
	}
	return count
}

// isDecimalPoint reports whether the "." at index i sits between two
// digits, i.e. is part of a numeric literal rather than a statement
// separator.
func isDecimalPoint(s string, i int) bool {
	if i == 0 || i == len(s)-1 {
		return false
	}
	return isDigit(s[i-1]) && isDigit(s[i+1])
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
