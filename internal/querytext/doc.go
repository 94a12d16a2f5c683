// Package querytext implements the SPARQL query-text engine: validation,
// structural analysis, formatting, and small rewriting operations over raw
// query strings.
//
// The engine is deliberately lexical. Detection runs on substrings and
// regular expressions over the raw text, not on a parsed AST. A WHERE that
// appears inside a string literal is indistinguishable from a real clause
// keyword. This is the documented contract, not an oversight: callers that
// depended on the heuristic behavior keep getting it, and upgrading to a
// real tokenizer would silently change results on those edge cases.
//
// # Operations
//
//   - Validate: structural well-formedness (query form, WHERE requirement,
//     brace balance, quote balance) plus non-fatal warnings.
//   - Analyze: query-type classification, variable extraction, triple
//     pattern counting, feature flags, and a configurable complexity score.
//   - Format: keyword-aligned line breaks and brace-driven indentation.
//     Idempotent and token-preserving.
//   - AddPrefix / AddLimit / AddBasicStructure: idempotent text mutations.
//
// # Purity
//
// Every operation reads only its arguments and allocates only its return
// value. There is no shared mutable state; the package-level regexps are
// compiled once and never mutated. All functions are safe for concurrent
// use without coordination.
//
// # Errors
//
// A malformed query is a normal, fully specified result (Valid=false with a
// diagnostic), never an error return or a panic. The empty string is the
// zero query and validates as "Query cannot be empty".
package querytext
