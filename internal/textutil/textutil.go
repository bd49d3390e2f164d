// Package textutil holds the small text helpers shared by the feed
// normalizer and the curator.
package textutil

import (
	"html"
	"strings"
	"unicode"
)

// StripHTML removes tags, decodes entities, and collapses whitespace.
// Tags are stripped before entities are decoded so escaped markup in
// the source text survives as literal text.
func StripHTML(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(strings.Join(strings.Fields(b.String()), " "))
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// TitleKey builds the normalized dedup key for an article title:
// lowercase, punctuation replaced by spaces, whitespace collapsed.
// "GPT-5 Launches!" and "gpt 5 launches" map to the same key.
func TitleKey(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
