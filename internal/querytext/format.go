package querytext

import (
	"regexp"
	"strings"
)

// defaultKeywords is the ordered clause-keyword list the formatter breaks
// lines on. Multi-word keywords are matched as written.
var defaultKeywords = []string{
	"PREFIX", "SELECT", "DISTINCT", "CONSTRUCT", "ASK", "DESCRIBE",
	"FROM", "WHERE", "FILTER", "OPTIONAL", "UNION", "MINUS", "GRAPH",
	"SERVICE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT", "OFFSET",
}

// FormatterConfig parameterizes Format.
//
// The engines this package consolidates disagreed on indent width; the
// width is configuration here, defaulting to two spaces.
type FormatterConfig struct {
	// IndentWidth is the number of spaces per brace-nesting level.
	// Values below 1 fall back to the default of 2.
	IndentWidth int

	// Keywords is the ordered list of clause keywords that start a new
	// line. Empty means the default list.
	Keywords []string
}

// DefaultFormatterConfig returns the default formatting configuration.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{IndentWidth: 2, Keywords: defaultKeywords}
}

// defaultKeywordPattern is the compiled break pattern for the default
// keyword list, built once at init.
var defaultKeywordPattern = compileKeywordPattern(defaultKeywords)

func compileKeywordPattern(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// Format re-serializes a query with normalized keyword line breaks and
// brace-based indentation, using the default configuration.
func Format(query string) string {
	return FormatWith(DefaultFormatterConfig(), query)
}

// FormatWith re-serializes a query under the given configuration.
//
// Each clause keyword starts a new line, except when it is part of a
// larger token or sits immediately after a PREFIX keyword. Lines are then
// indented two spaces (or cfg.IndentWidth) per unclosed brace: a line
// containing "}" dedents before printing, a line containing "{" indents
// after.
//
// FormatWith is idempotent and token-preserving: only whitespace changes;
// every non-whitespace token of the input appears exactly once, in order.
func FormatWith(cfg FormatterConfig, query string) string {
	query = Normalize(query)

	pattern := defaultKeywordPattern
	if len(cfg.Keywords) > 0 && !equalKeywords(cfg.Keywords, defaultKeywords) {
		pattern = compileKeywordPattern(cfg.Keywords)
	}
	width := cfg.IndentWidth
	if width < 1 {
		width = 2
	}

	broken := breakKeywords(pattern, query)

	var lines []string
	for _, line := range strings.Split(broken, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	var b strings.Builder
	indent := 0
	for i, line := range lines {
		if strings.Contains(line, "}") && indent > 0 {
			indent--
		}
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", width*indent))
		b.WriteString(line)
		if strings.Contains(line, "{") {
			indent++
		}
	}
	return b.String()
}

// breakKeywords inserts a newline before every keyword occurrence that is
// not excluded by its left context.
func breakKeywords(pattern *regexp.Regexp, query string) string {
	matches := pattern.FindAllStringIndex(query, -1)
	if len(matches) == 0 {
		return query
	}

	var b strings.Builder
	prev := 0
	for _, m := range matches {
		b.WriteString(query[prev:m[0]])
		if !excludedByLeftContext(query, m[0]) {
			b.WriteByte('\n')
		}
		prev = m[0]
	}
	b.WriteString(query[prev:])
	return b.String()
}

// excludedByLeftContext reports whether the keyword at start must NOT get
// a line break: it is glued to a preceding identifier character (part of
// a variable or prefixed name), or the preceding word is PREFIX.
func excludedByLeftContext(query string, start int) bool {
	if start == 0 {
		return false
	}
	switch c := query[start-1]; {
	case c == '?' || c == '$' || c == ':' || c == '_':
		return true
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	before := strings.ToUpper(strings.TrimRight(query[:start], " \t"))
	return strings.HasSuffix(before, "PREFIX")
}

func equalKeywords(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
