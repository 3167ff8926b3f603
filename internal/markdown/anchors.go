package markdown

import (
	"strconv"
	"strings"
	"unicode"
)

// anchorSet assigns GitHub-style heading anchors, de-duplicating repeats with
// -1, -2, ... suffixes.
type anchorSet struct {
	seen map[string]int
}

func newAnchorSet() *anchorSet {
	return &anchorSet{seen: make(map[string]int)}
}

func (a *anchorSet) add(title string) string {
	base := Slugify(title)
	n, dup := a.seen[base]
	a.seen[base] = n + 1
	if !dup {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Slugify lowercases s, keeps letters, digits, '-' and '_', and turns spaces into '-'.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}
