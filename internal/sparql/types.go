package sparql

import "time"

// ResultSet is the tabular form of a SPARQL query result.
//
// For SELECT queries, Columns holds the projected variable names (without
// the "?" sigil) and each row holds one value per column, with "" for
// unbound variables. For ASK queries, Columns is ["boolean"] and the
// single row holds "true" or "false".
type ResultSet struct {
	Columns []string      `json:"columns"`
	Rows    [][]string    `json:"rows"`
	Elapsed time.Duration `json:"elapsed"`
}

// envelope is the SPARQL 1.1 Query Results JSON Format.
// Exactly one of Results or Boolean is present in a well-formed response.
type envelope struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results *struct {
		Bindings []map[string]bindingValue `json:"bindings"`
	} `json:"results"`
	Boolean *bool `json:"boolean"`
}

// bindingValue is one cell of a result binding.
type bindingValue struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}
