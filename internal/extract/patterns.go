// Package extract derives structured summaries from scored records:
// session accomplishments, decisions, error-to-solution pairs, and
// tool-usage patterns.
//
// Every extractor is a pattern table: an ordered list of (trigger,
// capture) pairs evaluated first-match-wins per record. Keeping the tables
// data-driven means each pattern can be tested in isolation instead of
// being buried in branching.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Pattern is one row of a pattern table: a trigger and a capture strategy
// that turns the match into a short human-readable string.
type Pattern struct {
	Name    string
	Trigger *regexp.Regexp
	Capture func(match []string) string
}

// Table is an ordered pattern list. Earlier rows outrank later ones.
type Table []Pattern

// Extract runs the table against text, first match wins. A record
// contributes at most one string per table.
func (t Table) Extract(text string) (string, bool) {
	for _, p := range t {
		m := p.Trigger.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		out := strings.TrimSpace(p.Capture(m))
		if out != "" {
			return clip(out, 140), true
		}
	}
	return "", false
}

// captureGroup returns the nth capture group, whole match when n is 0.
func captureGroup(n int) func([]string) string {
	return func(m []string) string {
		if n < len(m) {
			return m[n]
		}
		return ""
	}
}

// captureLiteral ignores the match and emits a fixed string.
func captureLiteral(s string) func([]string) string {
	return func([]string) string { return s }
}

// accomplishmentTable recognizes concrete completed work in assistant
// turns. Order matters: commit and test outcomes are more specific than
// the generic completion verbs below them.
var accomplishmentTable = Table{
	{
		Name:    "git-commit",
		Trigger: regexp.MustCompile(`(?i)(?:committed|created commit|pushed)\s+([^.\n]{5,100})`),
		Capture: func(m []string) string { return "Committed " + m[1] },
	},
	{
		Name:    "test-outcome",
		Trigger: regexp.MustCompile(`(?i)(all tests pass(?:ed|ing)?|\d+ tests? pass(?:ed)?|tests are (?:now )?green)`),
		Capture: captureGroup(1),
	},
	{
		Name:    "build-outcome",
		Trigger: regexp.MustCompile(`(?i)(build (?:succeeded|passes|is green)|compiles? (?:cleanly|without errors))`),
		Capture: captureGroup(1),
	},
	{
		Name:    "completion-verb",
		Trigger: regexp.MustCompile(`(?i)\b(?:I(?:'ve| have)?\s+)?(implemented|fixed|added|refactored|resolved|completed|migrated)\s+([^.\n]{5,100})`),
		Capture: func(m []string) string { return capitalize(m[1]) + " " + m[2] },
	},
	{
		Name:    "file-modification",
		Trigger: regexp.MustCompile(`(?i)(?:updated|edited|rewrote|created)\s+([\w./-]+\.\w{1,5})`),
		Capture: func(m []string) string { return "Modified " + m[1] },
	},
}

// decisionTable recognizes recorded decisions.
var decisionTable = Table{
	{
		Name:    "decided-to",
		Trigger: regexp.MustCompile(`(?i)(?:decided to|went with|settled on|chose)\s+([^.\n]{5,100})`),
		Capture: func(m []string) string { return "Decision: " + m[1] },
	},
	{
		Name:    "instead-of",
		Trigger: regexp.MustCompile(`(?i)(?:using|use)\s+([^.\n]{3,60})\s+instead of\s+([^.\n]{3,60})`),
		Capture: func(m []string) string { return "Decision: " + m[1] + " over " + m[2] },
	},
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	s = strings.ToLower(s)
	return strings.ToUpper(s[:1]) + s[1:]
}

// clip bounds s to n bytes without splitting a multi-byte character.
func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
