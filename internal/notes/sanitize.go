package notes

import (
	"strings"
	"unicode"
)

// Sanitize maps an arbitrary project or title string to a filesystem-safe
// identifier. Every rune that is not a letter, digit, space, hyphen, or
// underscore is dropped, surrounding whitespace is trimmed, and interior
// spaces become underscores.
//
// Sanitize is total: it never fails, but the result may be empty when the
// input contains no usable runes. Callers must reject an empty identifier
// before using it as a path segment.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	s := strings.TrimSpace(b.String())
	return strings.ReplaceAll(s, " ", "_")
}

// Display reverses the space substitution of Sanitize for human-facing
// output. The reversal is lossy: a raw name that contained literal
// underscores is indistinguishable from one that contained spaces.
func Display(id string) string {
	return strings.ReplaceAll(id, "_", " ")
}

// timestampLayout is the on-disk version identifier format. Fixed-width
// microseconds keep a lexicographic sort equal to a chronological sort.
const timestampLayout = "2006-01-02T15:04:05.000000"

// sanitizeTimestamp makes an ISO-8601 timestamp filesystem-safe by
// swapping colons for hyphens. Sort order is unaffected.
func sanitizeTimestamp(ts string) string {
	return strings.ReplaceAll(ts, ":", "-")
}

// displayTimestamp restores the colons in the time portion of a sanitized
// timestamp. Date hyphens are left alone.
func displayTimestamp(safe string) string {
	i := strings.IndexByte(safe, 'T')
	if i < 0 {
		return safe
	}
	return safe[:i+1] + strings.ReplaceAll(safe[i+1:], "-", ":")
}
