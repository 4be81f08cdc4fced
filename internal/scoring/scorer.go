package scoring

import (
	"regexp"
	"strings"

	"github.com/dshills/gohistory-mcp/pkg/types"
)

// Weights for the primary (unbounded) scorer.
const (
	strictTermWeight     = 10.0
	supportingTermWeight = 3.0
	residualTermWeight   = 2.0
	exactPhraseBonus     = 5.0
	majorityCoverBonus   = 3.0
	toolRecordBonus      = 2.0
	fileReferenceBonus   = 2.0
	projectMatchBonus    = 3.0
)

// CappedScoreCeiling bounds ScoreCapped's output. Call sites that mix this
// score with per-type bonuses rely on the fixed ceiling.
const CappedScoreCeiling = 10.0

var sourceFileRe = regexp.MustCompile(`\b[\w./-]+\.(go|py|js|jsx|ts|tsx|rs|java|rb|c|cc|cpp|h|hpp|cs|sh|bash|sql|yaml|yml|toml|json|proto|md)\b`)

// Score computes the base relevance of a record for a query. Unbounded
// above; zero is a hard veto.
//
// Query words longer than two characters are partitioned into strict-core
// terms (curated technology names), supporting terms (length >= 5, not
// generic), and residual words. Strict-core terms dominate, and if the
// query names at least one technology that the content never mentions by a
// correctly-cased token, the record scores zero regardless of any other
// overlap.
func Score(record *types.Record, query string, projectFilter string) float64 {
	content := record.Content
	if content == "" {
		return 0
	}

	words := QueryWords(query)
	if len(words) == 0 {
		return 0
	}

	var strict, supporting, residual []string
	for _, w := range words {
		switch {
		case IsStrictCore(w):
			strict = append(strict, w)
		case len(w) >= 5 && !IsGeneric(w):
			supporting = append(supporting, w)
		default:
			residual = append(residual, w)
		}
	}

	score := 0.0
	matched := make(map[string]bool, len(words))

	strictHit := false
	for _, term := range strict {
		if Matches(content, term) {
			strictHit = true
			matched[term] = true
			score += strictTermWeight
		}
	}
	if len(strict) > 0 && !strictHit {
		return 0
	}

	for _, term := range supporting {
		if Matches(content, term) {
			matched[term] = true
			score += supportingTermWeight
		}
	}

	for _, term := range residual {
		if matched[term] {
			continue
		}
		if Matches(content, term) {
			matched[term] = true
			score += residualTermWeight
		}
	}

	lowerContent := strings.ToLower(content)
	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	if lowerQuery != "" && strings.Contains(lowerContent, lowerQuery) {
		score += exactPhraseBonus
	}

	if float64(len(matched))/float64(len(words)) >= 0.6 {
		score += majorityCoverBonus
	}

	if record.Role == types.RoleToolUse || record.Role == types.RoleToolResult {
		score += toolRecordBonus
	}
	if sourceFileRe.MatchString(content) {
		score += fileReferenceBonus
	}
	if projectFilter != "" && strings.Contains(strings.ToLower(record.ProjectPath), strings.ToLower(projectFilter)) {
		score += projectMatchBonus
	}

	return score
}

// ScoreCapped is the duplicate-named scoring path preserved from the
// original design: flatter weights, simple substring matching, output
// capped at CappedScoreCeiling. The file-context and plan-search call
// sites depend on this scale; do not fold it into Score without re-pinning
// their rankings.
func ScoreCapped(record *types.Record, query string) float64 {
	content := strings.ToLower(record.Content)
	if content == "" {
		return 0
	}

	words := QueryWords(query)
	if len(words) == 0 {
		return 0
	}

	score := 0.0
	for _, w := range words {
		if strings.Contains(content, w) {
			score += 2.0
		}
	}

	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	if strings.Contains(content, lowerQuery) {
		score += 3.0
	}
	if record.Role == types.RoleToolUse || record.Role == types.RoleToolResult {
		score += 1.0
	}
	if sourceFileRe.MatchString(record.Content) {
		score += 1.0
	}

	if score > CappedScoreCeiling {
		score = CappedScoreCeiling
	}
	return score
}

// QueryWords tokenizes a query into lowercase words longer than two
// characters.
func QueryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		f = cleanWord(f)
		if len(f) > 2 {
			words = append(words, f)
		}
	}
	return words
}

// SignificantWords filters query words down to the length- and stop-word-
// filtered set used for veto and similarity gating.
func SignificantWords(query string) []string {
	words := QueryWords(query)
	sig := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) >= 4 && !IsStopWord(w) {
			sig = append(sig, w)
		}
	}
	return sig
}
