package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

var fencedBlockRe = regexp.MustCompile("(?s)```[^\n]*\n.*?```")

// Truncate shortens text to roughly the given budget using the strategy
// for its detected content type. Text already within budget is returned
// unchanged, byte for byte. A small overshoot for the ellipsis marker is
// acceptable.
func Truncate(text string, budget int) string {
	return TruncateAs(text, Classify(text), budget)
}

// TruncateAs is Truncate with the content type already decided.
func TruncateAs(text string, t Type, budget int) string {
	if budget <= 0 || len(text) <= budget {
		return text
	}

	switch t {
	case TypeCode:
		return truncateCode(text, budget)
	case TypeError:
		return truncateError(text, budget)
	case TypeTechnical:
		return truncateTechnical(text, budget)
	default:
		return truncateConversational(text, budget)
	}
}

// truncateCode prefers a complete fenced block that fits the budget, then
// falls back to a leading-context cut.
func truncateCode(text string, budget int) string {
	for _, block := range fencedBlockRe.FindAllString(text, -1) {
		if len(block) <= budget {
			return block
		}
	}
	return hardCut(text, budget)
}

// truncateError prefers the first complete error-to-blank-line span, then
// falls back to the line containing the error token plus trailing context.
func truncateError(text string, budget int) string {
	idx := errorVocabRe.FindStringIndex(text)
	if idx == nil {
		return hardCut(text, budget)
	}

	lineStart := strings.LastIndexByte(text[:idx[0]], '\n') + 1
	span := text[lineStart:]
	if end := strings.Index(span, "\n\n"); end >= 0 {
		span = span[:end]
	}
	if len(span) <= budget {
		return span
	}
	return hardCut(span, budget)
}

// truncateTechnical lists the file-path and tool tokens instead of prose.
func truncateTechnical(text string, budget int) string {
	tokens := filePathRe.FindAllString(text, -1)
	tokens = append(tokens, toolMarkerRe.FindAllString(text, -1)...)
	tokens = dedupeStrings(tokens)

	if len(tokens) > 0 {
		joined := strings.Join(tokens, ", ")
		if len(joined) <= budget {
			return joined
		}
		return hardCut(joined, budget)
	}
	return truncateConversational(text, budget)
}

// truncateConversational cuts at the last sentence boundary before the
// budget, then the last word boundary, then hard.
func truncateConversational(text string, budget int) string {
	window := runeCut(text, budget)

	if cut := lastSentenceEnd(window); cut > budget/2 {
		return window[:cut] + ellipsis
	}
	if cut := strings.LastIndexByte(window, ' '); cut > budget/2 {
		return window[:cut] + ellipsis
	}
	return window + ellipsis
}

func lastSentenceEnd(s string) int {
	best := -1
	for _, mark := range []string{". ", "! ", "? ", ".\n"} {
		if i := strings.LastIndex(s, mark); i >= 0 && i+1 > best {
			best = i + 1
		}
	}
	return best
}

func hardCut(s string, budget int) string {
	if len(s) <= budget {
		return s
	}
	return runeCut(s, budget) + ellipsis
}

// runeCut returns the longest prefix of s within n bytes that ends on a
// rune boundary, so a cut never splits a multi-byte character.
func runeCut(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
