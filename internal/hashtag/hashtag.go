// Package hashtag extracts tag tokens from free text and derives canonical
// slugs for them. Pure functions, no I/O.
package hashtag

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxTags caps how many hashtags one text can contribute, bounding the
// fan-out of a single edit.
const MaxTags = 10

var hashtagPattern = regexp.MustCompile(`#([0-9A-Za-z\p{Han}\p{Hiragana}\p{Katakana}\p{Hangul}]+)`)

// Extract returns the hashtag names found in text, deduplicated by slug, in
// first-occurrence order, capped at MaxTags. Tokens that are not
// alphanumeric/CJK after the '#' are discarded.
func Extract(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		slug := Slugify(name)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		names = append(names, name)
		if len(names) == MaxTags {
			break
		}
	}
	return names
}

// Slugify lowercases name and collapses anything that is not alphanumeric or
// CJK into single dashes.
func Slugify(name string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(name) {
		keep := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') ||
			unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
		if keep {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		} else {
			pendingDash = true
		}
	}
	return b.String()
}
