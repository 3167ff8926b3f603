// Package repopath converts absolute source file paths into paths relative to
// the public repository root.
package repopath

import (
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// Relativizer maps absolute paths to repository-relative, slash-separated
// paths. It is safe for concurrent use.
type Relativizer struct {
	strategy config.RootStrategy
	marker   string

	mu    sync.Mutex
	roots map[string]string // directory -> worktree root ("" when none)
}

// New creates a Relativizer. An empty strategy means git.
func New(strategy config.RootStrategy, marker string) *Relativizer {
	if strategy == "" {
		strategy = config.RootStrategyGit
	}
	return &Relativizer{strategy: strategy, marker: marker, roots: map[string]string{}}
}

// FromConfig creates a Relativizer from source_link settings.
func FromConfig(cfg config.SourceLinkConfig) *Relativizer {
	return New(cfg.RootStrategy, cfg.RootMarker)
}

// Relativize returns the path of absPath inside the repository. It reports
// false for paths outside any repository or without a marker match.
func (r *Relativizer) Relativize(absPath string) (string, bool) {
	if r.strategy == config.RootStrategyGit {
		if root := r.worktreeRoot(filepath.Dir(absPath)); root != "" {
			rel, err := filepath.Rel(root, absPath)
			if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
				return "", false
			}
			return filepath.ToSlash(rel), true
		}
		if r.marker == "" {
			return "", false
		}
	}
	return afterMarker(absPath, r.marker)
}

func (r *Relativizer) worktreeRoot(dir string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if root, ok := r.roots[dir]; ok {
		return root
	}
	root := ""
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err == nil {
		if wt, err := repo.Worktree(); err == nil {
			root = wt.Filesystem.Root()
		}
	} else {
		slog.Debug("No git repository for source directory", logfields.Path(dir), logfields.Error(err))
	}
	r.roots[dir] = root
	return root
}

// afterMarker keeps the text after the last occurrence of marker.
func afterMarker(absPath, marker string) (string, bool) {
	if marker == "" {
		return "", false
	}
	p := filepath.ToSlash(absPath)
	idx := strings.LastIndex(p, marker)
	if idx < 0 {
		return "", false
	}
	rest := strings.TrimLeft(p[idx+len(marker):], "/")
	if rest == "" {
		return "", false
	}
	return rest, true
}

// CurrentBranch returns the short name of the branch checked out in the
// repository containing dir.
func CurrentBranch(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}
	head, err := repo.Head()
	if err != nil || !head.Name().IsBranch() {
		return "", false
	}
	return head.Name().Short(), true
}
