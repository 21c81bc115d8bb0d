package searcher

import (
	"strings"
	"unicode/utf8"
)

// excerptContext is how many characters of context surround a match.
const excerptContext = 150

// makeExcerpt extracts a window around the first case-insensitive
// literal occurrence of the query inside the content, with ellipses
// marking truncation. When the query never occurs literally (the fuzzy
// score came from an inexact match), the beginning of the content is
// returned instead.
func makeExcerpt(content, query string) string {
	pos := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if pos == -1 {
		if len(content) > excerptContext*2 {
			return content[:runeFloor(content, excerptContext*2)] + "..."
		}
		return content
	}

	start := pos - excerptContext
	if start < 0 {
		start = 0
	} else {
		start = runeCeil(content, start)
	}

	end := pos + len(query) + excerptContext
	if end > len(content) {
		end = len(content)
	} else {
		end = runeFloor(content, end)
	}

	excerpt := content[start:end]
	if start > 0 {
		excerpt = "..." + excerpt
	}
	if end < len(content) {
		excerpt += "..."
	}
	return excerpt
}

// runeFloor moves a byte offset left to the nearest rune boundary.
func runeFloor(s string, i int) int {
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return i
}

// runeCeil moves a byte offset right to the nearest rune boundary.
func runeCeil(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
