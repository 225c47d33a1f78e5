package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

const maxSanitizePasses = 5

// SanitizeText strips every HTML element from user-supplied text and stores
// the remainder unescaped, so "Salt & Pepper" survives as typed.
//
// Sanitising and unescaping repeat until the text is stable, so markup sent
// entity-encoded is decoded and stripped as well. Text that never settles is
// returned in its escaped form.
func SanitizeText(s string) string {
	for range maxSanitizePasses {
		cleaned := html.UnescapeString(strictPolicy.Sanitize(s))
		if cleaned == s {
			return strings.TrimSpace(cleaned)
		}
		s = cleaned
	}

	return strings.TrimSpace(strictPolicy.Sanitize(s))
}

func SanitizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	cleaned := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.ToLower(SanitizeText(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		cleaned = append(cleaned, tag)
	}

	return cleaned
}
