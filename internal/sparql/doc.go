// Package sparql executes query text against remote SPARQL endpoints over
// HTTP and decodes the SPARQL 1.1 JSON results envelope into a tabular
// ResultSet.
//
// The client is the engine's execution collaborator: it knows nothing
// about query structure and performs no validation. Callers validate and
// format query text with the querytext package first, then hand the raw
// string to Execute.
//
// Requests go out as a form-encoded POST with a single GET fallback when
// the endpoint rejects POST with 405. There is no retry policy beyond
// that fallback; cancellation and deadlines come from the caller's
// context.
package sparql
