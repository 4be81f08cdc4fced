// Package content detects what kind of text a record carries and truncates
// it adaptively: each content type gets its own display budget and a
// truncation strategy that keeps the highest-value substring.
package content

import (
	"regexp"
	"strings"
)

// Type is a detected content category.
type Type string

const (
	TypeCode           Type = "code"
	TypeError          Type = "error"
	TypeTechnical      Type = "technical"
	TypeConversational Type = "conversational"
)

// Display budgets per content type. Code and errors get wider budgets: a
// truncated stack trace or half a function is worth less than a truncated
// sentence.
const (
	BudgetCode           = 600
	BudgetError          = 500
	BudgetTechnical      = 350
	BudgetConversational = 250
)

var (
	codeKeywordRe = regexp.MustCompile(`(?m)^\s*(func |def |class |const |var |import |package |function |fn )`)
	errorVocabRe  = regexp.MustCompile(`(?i)\b(error|exception|panic|traceback|fatal|failed|failure)\b`)
	filePathRe    = regexp.MustCompile(`\b[\w./~-]+\.(go|py|js|jsx|ts|tsx|rs|java|rb|c|cc|cpp|h|hpp|cs|sh|bash|sql|yaml|yml|toml|json|proto|md|txt|css|html)\b`)
	pathLikeRe    = regexp.MustCompile(`(^|\s)(/|\./|~/)[\w./-]+`)
	toolMarkerRe  = regexp.MustCompile(`Using tool: \w+`)
)

// Classify detects a content type, first match wins: code, then error,
// then technical, then conversational.
func Classify(text string) Type {
	switch {
	case strings.Contains(text, "```") || codeKeywordRe.MatchString(text):
		return TypeCode
	case errorVocabRe.MatchString(text):
		return TypeError
	case filePathRe.MatchString(text) || pathLikeRe.MatchString(text) || toolMarkerRe.MatchString(text):
		return TypeTechnical
	default:
		return TypeConversational
	}
}

// Budget returns the display-length budget for a content type. The
// formatting layer applies it; the core only supplies the value.
func Budget(t Type) int {
	switch t {
	case TypeCode:
		return BudgetCode
	case TypeError:
		return BudgetError
	case TypeTechnical:
		return BudgetTechnical
	default:
		return BudgetConversational
	}
}
