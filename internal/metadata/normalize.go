package metadata

import (
	"strings"
	"unicode/utf8"
)

// YouTube metadata limits.
const (
	maxTitleLen       = 100
	maxDescriptionLen = 5000
	maxTagLen         = 30
	maxTagsBudget     = 500
)

// Normalize clamps metadata to the limits YouTube enforces server-side,
// so uploads never fail on oversized fields regardless of what the
// generative model returned.
func Normalize(m Metadata) Metadata {
	m.Title = truncate(strings.TrimSpace(m.Title), maxTitleLen)
	m.Description = truncate(m.Description, maxDescriptionLen)
	m.Tags = normalizeTags(m.Tags)
	return m
}

func normalizeTags(tags []string) []string {
	result := make([]string, 0, len(tags))
	budget := 0

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		tag = strings.TrimPrefix(tag, "#")
		// Tags are comma-joined for storage, so a comma inside a tag
		// would split it on the way back out.
		tag = strings.ReplaceAll(tag, ",", " ")
		tag = strings.Join(strings.Fields(tag), " ")
		tag = truncate(tag, maxTagLen)
		if tag == "" {
			continue
		}
		// Each tag costs its length plus one separator byte.
		if budget+len(tag)+1 > maxTagsBudget {
			break
		}
		budget += len(tag) + 1
		result = append(result, tag)
	}

	return result
}

// truncate caps s at max bytes without splitting a multibyte rune, so
// the result is always valid UTF-8.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
