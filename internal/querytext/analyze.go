package querytext

import (
	"sort"
	"strings"
)

// QueryType identifies the query form detected by Analyze.
type QueryType string

const (
	QueryTypeSelect    QueryType = "SELECT"
	QueryTypeAsk       QueryType = "ASK"
	QueryTypeConstruct QueryType = "CONSTRUCT"
	QueryTypeDescribe  QueryType = "DESCRIBE"
	QueryTypeUnknown   QueryType = "UNKNOWN"
)

// Features flags structural constructs detected in the query text.
type Features struct {
	Subquery  bool `json:"subquery"`
	Union     bool `json:"union"`
	Optional  bool `json:"optional"`
	GroupBy   bool `json:"group_by"`
	Aggregate bool `json:"aggregate"`
}

// Analysis is the structural report produced by Analyze.
//
// Analysis is best-effort: it is produced even for invalid input, with
// fields defaulting to empty or zero where detection fails.
type Analysis struct {
	// Valid mirrors Validate's verdict for the same text.
	Valid bool `json:"valid"`

	// Type is the detected query form, or QueryTypeUnknown.
	Type QueryType `json:"type"`

	// Variables holds the distinct "?name" tokens, sorted.
	// Set semantics: order carries no meaning.
	Variables []string `json:"variables"`

	// TriplePatterns approximates the number of triple patterns in the
	// WHERE block. Heuristic; see countTriplePatterns.
	TriplePatterns int `json:"triple_patterns"`

	// Features flags detected structural constructs.
	Features Features `json:"features"`

	// Score is the complexity score under the analyzer configuration.
	Score int `json:"score"`

	// Complex reports whether Score exceeds the configured threshold.
	Complex bool `json:"complex"`
}

// AnalyzerConfig parameterizes the complexity score.
//
// The scoring formula is configuration rather than a fixed constant: the
// systems this engine consolidates disagreed on the exact weights, so
// consumers that need a particular formula set their own.
type AnalyzerConfig struct {
	// OptionalFreeCount is how many OPTIONAL blocks score zero.
	// Each OPTIONAL beyond this adds one point.
	OptionalFreeCount int

	// SubqueryWeight is added when a nested SELECT is present.
	SubqueryWeight int

	// UnionWeight is added when UNION is present.
	UnionWeight int

	// GroupByWeight is added when GROUP BY is present.
	GroupByWeight int

	// AggregateWeight is added when an aggregate call is present.
	AggregateWeight int

	// TriplesPerPoint adds one point per this many triple patterns.
	// Values below 1 are treated as 1.
	TriplesPerPoint int

	// ComplexThreshold is the score above which a query is complex.
	ComplexThreshold int
}

// DefaultAnalyzerConfig returns the default scoring configuration.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		OptionalFreeCount: 3,
		SubqueryWeight:    2,
		UnionWeight:       2,
		GroupByWeight:     1,
		AggregateWeight:   1,
		TriplesPerPoint:   3,
		ComplexThreshold:  8,
	}
}

// Analyze classifies a query string using the default configuration.
func Analyze(query string) Analysis {
	return AnalyzeWith(DefaultAnalyzerConfig(), query)
}

// AnalyzeWith classifies a query string: detected form, declared
// variables, triple pattern count, feature flags, and complexity score.
//
// Analysis proceeds regardless of validity; Valid records the verdict so
// callers can still surface a best-effort report for broken input.
func AnalyzeWith(cfg AnalyzerConfig, query string) Analysis {
	query = Normalize(query)
	upper := strings.ToUpper(strings.TrimSpace(query))

	a := Analysis{
		Valid:          Validate(query).Valid,
		Type:           detectQueryType(upper),
		Variables:      extractVariables(query),
		TriplePatterns: countTriplePatterns(query),
		Features: Features{
			Subquery:  hasSubquery(query),
			Union:     containsFold(upper, "UNION"),
			Optional:  containsFold(upper, "OPTIONAL"),
			GroupBy:   containsFold(upper, "GROUP BY"),
			Aggregate: hasAggregate(upper),
		},
	}
	a.Score = cfg.score(a, strings.Count(upper, "OPTIONAL"))
	a.Complex = a.Score > cfg.ComplexThreshold
	return a
}

// detectQueryType returns the query form whose keyword occurs earliest in
// the uppercased text. Ties cannot occur; keywords found at the same scan
// fall back to form priority order.
func detectQueryType(upper string) QueryType {
	best := QueryTypeUnknown
	bestIdx := -1
	for _, f := range queryForms {
		idx := strings.Index(upper, f)
		if idx < 0 {
			continue
		}
		if bestIdx < 0 || idx < bestIdx {
			best = QueryType(f)
			bestIdx = idx
		}
	}
	return best
}

// extractVariables returns the distinct "?name" tokens, sorted.
func extractVariables(query string) []string {
	seen := map[string]bool{}
	vars := []string{}
	for _, v := range variablePattern.FindAllString(query, -1) {
		if !seen[v] {
			seen[v] = true
			vars = append(vars, v)
		}
	}
	sort.Strings(vars)
	return vars
}

// hasSubquery reports a nested SELECT: either more than one SELECT
// keyword, or a single SELECT that appears after the first "{".
func hasSubquery(query string) bool {
	matches := selectKeywordPattern.FindAllStringIndex(query, -1)
	if len(matches) > 1 {
		return true
	}
	if len(matches) == 1 {
		if brace := strings.IndexByte(query, '{'); brace >= 0 && matches[0][0] > brace {
			return true
		}
	}
	return false
}

func hasAggregate(upper string) bool {
	// Whitespace between the function name and "(" is not recognized.
	for _, fn := range aggregateFunctions {
		if strings.Contains(upper, fn) {
			return true
		}
	}
	return false
}

// score computes the complexity score for an analysis.
// Monotonic: adding features or triple patterns never lowers it.
func (cfg AnalyzerConfig) score(a Analysis, optionalCount int) int {
	score := 0
	if extra := optionalCount - cfg.OptionalFreeCount; extra > 0 {
		score += extra
	}
	if a.Features.Subquery {
		score += cfg.SubqueryWeight
	}
	if a.Features.Union {
		score += cfg.UnionWeight
	}
	if a.Features.GroupBy {
		score += cfg.GroupByWeight
	}
	if a.Features.Aggregate {
		score += cfg.AggregateWeight
	}
	per := cfg.TriplesPerPoint
	if per < 1 {
		per = 1
	}
	score += a.TriplePatterns / per
	return score
}
