package scoring

import (
	"strings"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

var (
	errorWords          = []string{"error", "fail", "failed", "failure", "bug", "broken", "crash", "exception", "panic", "fix"}
	implementationWords = []string{"implement", "create", "build", "add", "write", "develop", "setup", "install"}
	analysisWords       = []string{"analyze", "review", "understand", "explain", "compare", "why", "investigate"}
)

// semanticTriggers maps a boost label to the substring that activates it
// and the multiplier applied during re-ranking.
var semanticTriggers = []struct {
	label      string
	trigger    string
	multiplier float64
}{
	{types.BoostErrorResolution, "error", 3.0},
	{types.BoostSolutions, "fix", 2.5},
	{types.BoostImplementation, "implement", 2.5},
	{types.BoostOptimization, "optimiz", 2.0},
	{types.BoostFileOperations, "file", 2.0},
	{types.BoostToolUsage, "tool", 2.0},
}

// ClassifyIntent categorizes a query and derives the boost weights and
// urgency/scope flags used by query-time filtering and re-ranking. Type
// selection is first-match priority: error > implementation > analysis >
// general.
func ClassifyIntent(query string) types.QueryIntent {
	lower := strings.ToLower(strings.TrimSpace(query))

	intent := types.QueryIntent{
		Type:           types.IntentGeneral,
		Urgency:        "medium",
		Scope:          "focused",
		Keywords:       SignificantWords(query),
		SemanticBoosts: make(map[string]float64),
	}

	switch {
	case containsAny(lower, errorWords):
		intent.Type = types.IntentError
		intent.ExpectsSolution = true
	case containsAny(lower, implementationWords):
		intent.Type = types.IntentImplementation
		intent.ExpectsCode = true
	case containsAny(lower, analysisWords):
		intent.Type = types.IntentAnalysis
	}

	if containsAny(lower, errorWords) {
		intent.Urgency = "high"
	}
	if strings.Contains(lower, "project") || hasWord(lower, "all") {
		intent.Scope = "broad"
	}
	if strings.Contains(lower, "code") || strings.Contains(lower, "function") || strings.Contains(lower, "snippet") {
		intent.ExpectsCode = true
	}

	for _, st := range semanticTriggers {
		if strings.Contains(lower, st.trigger) {
			intent.SemanticBoosts[st.label] = st.multiplier
		}
	}

	return intent
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if cleanWord(f) == word {
			return true
		}
	}
	return false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
