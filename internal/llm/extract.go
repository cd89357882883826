package llm

import (
	"regexp"
	"strings"
)

// Fenced-block patterns, tried in order. Only the first match of each pattern is
// considered.
var fencedPatterns = []*regexp.Regexp{
	regexp.MustCompile("(?is)```sql\\s*\\n(.*?)\\n```"),
	regexp.MustCompile("(?is)```\\s*\\n(SELECT.*?)\\n```"),
	regexp.MustCompile("(?is)```\\s*\\n(INSERT.*?)\\n```"),
	regexp.MustCompile("(?is)```\\s*\\n(UPDATE.*?)\\n```"),
	regexp.MustCompile("(?is)```\\s*\\n(DELETE.*?)\\n```"),
}

var (
	structureStatement = regexp.MustCompile(`(?i)^(CREATE|ALTER|DROP)\s+`)
	dataStatement      = regexp.MustCompile(`(?i)^(SELECT|INSERT|UPDATE|DELETE)\s+`)
)

// ExtractSQL finds the statement embedded in a model reply.
//
// Fenced blocks win over bare lines. A fenced candidate starting with CREATE, ALTER
// or DROP is skipped and the next pattern is tried. The filter is textual only: a
// DELETE without WHERE is accepted.
func ExtractSQL(text string) (string, bool) {
	for _, pattern := range fencedPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		query := strings.TrimSpace(match[1])
		if !IsStructureStatement(query) {
			return query, true
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if dataStatement.MatchString(line) {
			return line, true
		}
	}

	return "", false
}

// IsStructureStatement reports whether query begins with CREATE, ALTER or DROP.
func IsStructureStatement(query string) bool {
	return structureStatement.MatchString(query)
}
