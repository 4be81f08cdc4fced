package scoring

import (
	"strings"
	"unicode"
)

// wordDelimiters split content into candidate words before cleaning.
const wordDelimiters = " \t\n\r.,;:!?()[]{}<>\"'`/\\|"

// Matches reports whether term occurs in content as a whole word under the
// casing gate. The comparison is case-insensitive, but a hit is accepted
// only when the matched word's own casing is normal: all lowercase, all
// uppercase, or title case. Words with internal capitalization are rejected
// and scanning continues, so a query for "react" matches "React" and
// "REACT" but never "ReAct": same letters, different concept.
//
// One qualifying word anywhere in content is enough.
func Matches(content, term string) bool {
	if content == "" || term == "" {
		return false
	}
	target := strings.ToLower(term)

	words := strings.FieldsFunc(content, func(r rune) bool {
		return strings.ContainsRune(wordDelimiters, r)
	})

	for _, w := range words {
		cleaned := cleanWord(w)
		if cleaned == "" {
			continue
		}
		if !strings.EqualFold(cleaned, target) {
			continue
		}
		if hasNormalCasing(cleaned) {
			return true
		}
	}
	return false
}

// cleanWord strips everything that is not a letter, digit, or hyphen.
func cleanWord(w string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return -1
	}, w)
}

// hasNormalCasing accepts lowercase, uppercase, and title-case words.
// Anything with internal capitalization (mixed-case acronym-like tokens)
// fails.
func hasNormalCasing(w string) bool {
	runes := []rune(w)

	allLower := true
	allUpper := true
	for _, r := range runes {
		if unicode.IsUpper(r) {
			allLower = false
		}
		if unicode.IsLower(r) {
			allUpper = false
		}
	}
	if allLower || allUpper {
		return true
	}

	// Title case: first rune upper, everything after lower.
	if !unicode.IsUpper(runes[0]) {
		return false
	}
	for _, r := range runes[1:] {
		if unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
