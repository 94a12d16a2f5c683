package querytext

import (
	"fmt"
	"strings"
)

// basicStructure is the boilerplate query AddBasicStructure returns for
// empty input.
const basicStructure = `PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
PREFIX rdfs: <http://www.w3.org/2000/01/rdf-schema#>

SELECT ?subject ?predicate ?object
WHERE {
  ?subject ?predicate ?object .
}
LIMIT 100`

// AddPrefix inserts a PREFIX declaration for the given namespace.
//
// prefix is the bare identifier (no trailing colon); uri is the absolute
// namespace URI. If the query already declares the prefix, it is returned
// unchanged. Otherwise the declaration is inserted immediately after the
// last existing PREFIX line, or at the very start when none exists.
//
// Idempotent: applying the same (prefix, uri) twice yields the same text.
func AddPrefix(prefix, uri, query string) string {
	if strings.Contains(query, "PREFIX "+prefix+":") {
		return query
	}

	decl := fmt.Sprintf("PREFIX %s: <%s>", prefix, uri)

	lines := strings.Split(query, "\n")
	last := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.ToUpper(strings.TrimSpace(line)), "PREFIX") {
			last = i
		}
	}
	if last < 0 {
		return decl + "\n" + query
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:last+1]...)
	out = append(out, decl)
	out = append(out, lines[last+1:]...)
	return strings.Join(out, "\n")
}

// AddLimit appends "LIMIT 100" unless the query already mentions LIMIT
// anywhere (case-insensitive). Idempotent.
func AddLimit(query string) string {
	if containsFold(strings.ToUpper(query), "LIMIT") {
		return query
	}
	return strings.TrimSpace(query) + "\nLIMIT 100"
}

// AddBasicStructure returns a minimal boilerplate query when the input is
// empty or whitespace-only, and the input unchanged otherwise. Idempotent.
func AddBasicStructure(query string) string {
	if strings.TrimSpace(query) != "" {
		return query
	}
	return basicStructure
}
