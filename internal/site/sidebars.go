package site

import (
	"log/slog"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// MatchSidebars picks the sidebar templates for pagename. An exact pattern
// wins; otherwise the longest matching glob does. It returns nil when no
// pattern matches.
func MatchSidebars(sidebars map[string][]string, pagename string) []string {
	if templates, ok := sidebars[pagename]; ok {
		return templates
	}

	patterns := make([]string, 0, len(sidebars))
	for p := range sidebars {
		patterns = append(patterns, p)
	}
	sort.Slice(patterns, func(i, j int) bool {
		if len(patterns[i]) != len(patterns[j]) {
			return len(patterns[i]) > len(patterns[j])
		}
		return patterns[i] < patterns[j]
	})

	for _, p := range patterns {
		ok, err := doublestar.Match(p, pagename)
		if err != nil {
			slog.Warn("Invalid sidebar pattern", slog.String("pattern", p), logfields.Error(err))
			continue
		}
		if ok {
			return sidebars[p]
		}
	}
	return nil
}
