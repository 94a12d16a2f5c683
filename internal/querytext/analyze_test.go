package querytext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeQueryType(t *testing.T) {
	tests := []struct {
		query string
		want  QueryType
	}{
		{"SELECT * WHERE { ?s ?p ?o }", QueryTypeSelect},
		{"ASK { ?s ?p ?o }", QueryTypeAsk},
		{"DESCRIBE <http://x>", QueryTypeDescribe},
		{"CONSTRUCT { ?s ?p ?o } WHERE { ?s ?p ?o }", QueryTypeConstruct},
		{"construct { ?s ?p ?o } where { ?s ?p ?o }", QueryTypeConstruct},
		{"DELETE WHERE { ?s ?p ?o }", QueryTypeUnknown},
		{"", QueryTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.query).Type)
		})
	}
}

func TestAnalyzeVariables(t *testing.T) {
	a := Analyze("SELECT ?name ?age WHERE { ?person foaf:name ?name . ?person foaf:age ?age }")
	assert.Equal(t, []string{"?age", "?name", "?person"}, a.Variables)
}

func TestAnalyzeVariablesDeduplicated(t *testing.T) {
	a := Analyze("SELECT ?s WHERE { ?s ?p ?o . ?s ?p ?o }")
	assert.Equal(t, []string{"?o", "?p", "?s"}, a.Variables)
}

func TestAnalyzeTriplePatternCount(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{
			name:  "two patterns",
			query: "SELECT * WHERE { ?s ?p ?o . ?s ?q ?r . }",
			want:  2,
		},
		{
			name:  "no where clause",
			query: "ASK { ?s ?p ?o . }",
			want:  0,
		},
		{
			name:  "decimal point not counted",
			query: "SELECT * WHERE { ?s ?p ?o . FILTER(?o > 1.5) }",
			want:  1,
		},
		{
			name:  "period inside string literal not counted",
			query: `SELECT * WHERE { ?s rdfs:label "v1.0 release" . }`,
			want:  1,
		},
		{
			name:  "nested block included",
			query: "SELECT * WHERE { ?s ?p ?o . OPTIONAL { ?s ?q ?r . } }",
			want:  2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.query).TriplePatterns)
		})
	}
}

func TestAnalyzeFeatures(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Features
	}{
		{
			name:  "plain select",
			query: "SELECT * WHERE { ?s ?p ?o }",
			want:  Features{},
		},
		{
			name:  "union and optional",
			query: "SELECT * WHERE { { ?s a ?t } UNION { ?s ?p ?o } OPTIONAL { ?s ?q ?r } }",
			want:  Features{Union: true, Optional: true},
		},
		{
			name:  "subquery via second select",
			query: "SELECT * WHERE { { SELECT ?x WHERE { ?x ?p ?o } } }",
			want:  Features{Subquery: true},
		},
		{
			name:  "aggregate with group by",
			query: "SELECT ?t (COUNT(?s) AS ?n) WHERE { ?s a ?t } GROUP BY ?t",
			want:  Features{GroupBy: true, Aggregate: true},
		},
		{
			name:  "lowercase aggregate",
			query: "SELECT (avg(?x) AS ?m) WHERE { ?s ?p ?x }",
			want:  Features{Aggregate: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Analyze(tt.query).Features)
		})
	}
}

func TestAnalyzeSubqueryAfterBrace(t *testing.T) {
	// A single SELECT after the first "{" still counts as a subquery.
	a := Analyze("ASK { SELECT ?x WHERE { ?x ?p ?o } }")
	assert.True(t, a.Features.Subquery)
}

func TestAnalyzeValidityMirrorsValidate(t *testing.T) {
	assert.True(t, Analyze("SELECT * WHERE { ?s ?p ?o }").Valid)
	assert.False(t, Analyze("ASK { ?s ?p ?o }").Valid) // missing WHERE

	// Analysis is best-effort on invalid input.
	a := Analyze("ASK { ?s ?p ?o }")
	assert.Equal(t, QueryTypeAsk, a.Type)
	assert.Equal(t, []string{"?o", "?p", "?s"}, a.Variables)
}

func TestAnalyzeScoreDefaults(t *testing.T) {
	// Subquery(+2) + union(+2) + group by(+1) + aggregate(+1) = 6,
	// plus triple patterns below the per-point divisor contribute 0.
	q := "SELECT ?t (COUNT(?s) AS ?n) WHERE { { SELECT ?s WHERE { ?s a ?t } } UNION { ?s a ?t } } GROUP BY ?t"
	a := Analyze(q)
	assert.Equal(t, 6, a.Score)
	assert.False(t, a.Complex)
}

func TestAnalyzeScoreOptionalsBeyondFree(t *testing.T) {
	q := "SELECT * WHERE { ?s ?p ?o OPTIONAL { ?s ?a ?b } OPTIONAL { ?s ?c ?d } OPTIONAL { ?s ?e ?f } OPTIONAL { ?s ?g ?h } }"
	a := Analyze(q)
	// Four OPTIONALs, first three free.
	assert.Equal(t, 1, a.Score)
}

func TestAnalyzeWithCustomConfig(t *testing.T) {
	cfg := DefaultAnalyzerConfig()
	cfg.UnionWeight = 10
	cfg.ComplexThreshold = 5

	a := AnalyzeWith(cfg, "SELECT * WHERE { { ?s a ?t } UNION { ?s ?p ?o } }")
	assert.Equal(t, 10, a.Score)
	assert.True(t, a.Complex)
}

func TestAnalyzeScoreMonotonicInTriples(t *testing.T) {
	small := Analyze("SELECT * WHERE { ?s ?p ?o . }")
	large := Analyze("SELECT * WHERE { ?a ?b ?c . ?d ?e ?f . ?g ?h ?i . ?j ?k ?l . ?m ?n ?q . ?r ?t ?u . }")
	assert.GreaterOrEqual(t, large.Score, small.Score)
}
