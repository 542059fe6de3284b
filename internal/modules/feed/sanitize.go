package feed

import (
	"regexp"
	"strings"
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	entityReplacer    = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
	)
)

// stripHTML removes markup from a product description: tags dropped, the
// five common entities decoded, whitespace runs collapsed to one space,
// result trimmed.
func stripHTML(html string) string {
	if html == "" {
		return ""
	}
	s := tagPattern.ReplaceAllString(html, "")
	s = entityReplacer.Replace(s)
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncate hard-slices s to at most n characters. Not word-boundary aware,
// but never splits a multi-byte rune.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
