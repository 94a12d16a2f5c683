// Package harness runs engine conformance scenarios.
//
// A scenario is a YAML document pairing one query with expectations about
// validation, analysis, and rewrite behavior. Scenarios keep the engine's
// observable contract pinned down in data rather than in test code, so a
// behavior change shows up as a fixture diff instead of a silent pass.
//
// Golden files under testdata/golden capture the formatter's output for
// each scenario's final query text. Regenerate them with:
//
//	go test ./internal/harness -update
package harness
