package extract

import (
	"regexp"
	"strings"
)

var (
	planMarkerRe = regexp.MustCompile(`(?i)(## plan|implementation plan|plan of attack|migration plan|^steps:|next steps:|Using tool: TodoWrite)`)
	numberedRe   = regexp.MustCompile(`(?m)^\s*\d+\.\s+\S`)
	headingRe    = regexp.MustCompile(`(?m)^#{1,3}\s+(.+)$`)
)

// IsPlanDocument reports whether content reads like a planning document:
// an explicit plan marker, or at least three numbered steps.
func IsPlanDocument(content string) bool {
	if planMarkerRe.MatchString(content) {
		return true
	}
	return len(numberedRe.FindAllString(content, 4)) >= 3
}

// PlanTitle picks a display title: the first markdown heading, falling
// back to the first non-empty line.
func PlanTitle(content string) string {
	if m := headingRe.FindStringSubmatch(content); m != nil {
		return clip(strings.TrimSpace(m[1]), 80)
	}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return clip(line, 80)
		}
	}
	return ""
}
