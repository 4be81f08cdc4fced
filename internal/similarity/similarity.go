// Package similarity computes a bounded [0,1] similarity between two short
// free-text queries. It exists to answer "have I asked this before", so it
// is tuned against false positives: two queries that merely share one
// common word must score zero.
package similarity

import (
	"strings"

	"github.com/dshills/gohistory-mcp/internal/scoring"
)

const (
	exactMatchScore   = 1.0
	substringFactor   = 0.8
	charSimilarScore  = 0.6
	synonymMatchScore = 0.7
	techMultiplier    = 1.2
	stemBonusFactor   = 0.3
)

// technicalSynonyms pairs words that name the same thing in different
// registers. Lookup is symmetric.
var technicalSynonyms = map[string]string{
	"auth":   "authentication",
	"bug":    "error",
	"config": "configuration",
	"create": "make",
	"db":     "database",
	"delete": "remove",
	"dir":    "directory",
	"docs":   "documentation",
	"fix":    "repair",
	"func":   "function",
	"js":     "javascript",
	"k8s":    "kubernetes",
	"repo":   "repository",
	"spec":   "test",
	"ts":     "typescript",
}

// technicalTriggers mark a query as technical, which earns the pair a
// small multiplier: technical vocabulary overlapping is a stronger signal
// than conversational vocabulary overlapping.
var technicalTriggers = []string{
	"api", "build", "config", "database", "debug", "deploy",
	"docker", "error", "git", "kubernetes", "server", "test",
}

// Similarity scores how alike two queries are, in [0,1].
//
// Words from each query are matched greedily: each word of a takes the
// best-scoring unmatched word of b, with no backtracking. If both queries
// have at least two significant words but fewer than two of the matches
// joined significant words on both sides, the result is zero. That hard
// gate keeps "write unit tests" and "test sidekick" apart.
func Similarity(a, b string) float64 {
	wordsA := scoring.QueryWords(a)
	wordsB := scoring.QueryWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	sigA := significantSet(wordsA)
	sigB := significantSet(wordsB)

	used := make([]bool, len(wordsB))
	var sum float64
	sigMatches := 0

	for _, wa := range wordsA {
		bestIdx := -1
		bestScore := 0.0
		for i, wb := range wordsB {
			if used[i] {
				continue
			}
			if s := pairScore(wa, wb); s > bestScore {
				bestScore = s
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			continue
		}
		used[bestIdx] = true
		sum += bestScore
		if sigA[wa] && sigB[wordsB[bestIdx]] {
			sigMatches++
		}
	}

	if len(sigA) >= 2 && len(sigB) >= 2 && sigMatches < 2 {
		return 0
	}

	maxLen := float64(len(wordsA))
	minLen := float64(len(wordsB))
	if minLen > maxLen {
		maxLen, minLen = minLen, maxLen
	}

	score := (sum / maxLen) * (minLen / maxLen)
	if isTechnical(a) || isTechnical(b) {
		score *= techMultiplier
	}
	score += stemOverlap(wordsA, wordsB) * stemBonusFactor

	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}

// pairScore rates one word pair: exact, substring-containment scaled by
// length ratio, positional character similarity, or synonym-table hit.
func pairScore(a, b string) float64 {
	if a == b {
		return exactMatchScore
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	ratio := float64(len(shorter)) / float64(len(longer))
	if len(shorter) >= 5 && ratio >= 0.6 && strings.Contains(longer, shorter) {
		return substringFactor * ratio
	}

	if charSimilar(a, b) {
		return charSimilarScore
	}

	if technicalSynonyms[a] == b || technicalSynonyms[b] == a {
		return synonymMatchScore
	}

	return 0
}

// charSimilar accepts words of near-equal length with at least 60%
// positional character identity. Catches inflections and small typos.
func charSimilar(a, b string) bool {
	la, lb := len(a), len(b)
	if la < 4 || lb < 4 {
		return false
	}
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > 3 {
		return false
	}

	minLen := la
	if lb < minLen {
		minLen = lb
	}
	same := 0
	for i := 0; i < minLen; i++ {
		if a[i] == b[i] {
			same++
		}
	}
	return float64(same)/float64(minLen) >= 0.6
}

// stemOverlap is the fraction of suffix-stripped words the two queries
// share, relative to the larger query.
func stemOverlap(wordsA, wordsB []string) float64 {
	stemsA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		stemsA[stem(w)] = true
	}
	stemsB := make(map[string]bool, len(wordsB))
	for _, w := range wordsB {
		stemsB[stem(w)] = true
	}

	shared := 0
	for s := range stemsA {
		if stemsB[s] {
			shared++
		}
	}
	maxLen := len(stemsA)
	if len(stemsB) > maxLen {
		maxLen = len(stemsB)
	}
	if maxLen == 0 {
		return 0
	}
	return float64(shared) / float64(maxLen)
}

// stem strips common English suffixes. Crude, but only overlap equality is
// ever computed with it.
func stem(w string) string {
	for _, suffix := range []string{"ing", "tion", "ed", "es", "s"} {
		if strings.HasSuffix(w, suffix) && len(w)-len(suffix) >= 3 {
			return w[:len(w)-len(suffix)]
		}
	}
	return w
}

func isTechnical(query string) bool {
	lower := strings.ToLower(query)
	for _, t := range technicalTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

func significantSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) >= 4 && !scoring.IsStopWord(w) {
			set[w] = true
		}
	}
	return set
}
