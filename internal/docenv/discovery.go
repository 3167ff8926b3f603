package docenv

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// discover walks dir and maps each document name to its file path.
func discover(dir string, suffixes, excludes []string) (map[string]string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, errors.DocsError("source directory not found").
			WithCause(ErrSourceDirMissing).
			WithContext("path", dir).
			Build()
	}

	found := make(map[string]string)
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == dir {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		// Skip hidden files and directories
		if strings.HasPrefix(d.Name(), ".") || isExcluded(rel, excludes) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		suffix := matchSuffix(rel, suffixes)
		if suffix == "" {
			return nil
		}
		name := strings.TrimSuffix(rel, suffix)
		if prev, dup := found[name]; dup {
			slog.Warn("Duplicate document name, keeping first", logfields.Docname(name), logfields.Path(prev), slog.String("ignored", p))
			return nil
		}
		found[name] = p
		return nil
	})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to walk source directory").
			WithContext("path", dir).
			Build()
	}
	return found, nil
}

// isExcluded matches rel against exclude patterns. A pattern also matches
// any path below a matching directory, and bare file names match at any depth.
func isExcluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if !strings.Contains(pattern, "/") {
			if ok, _ := path.Match(pattern, path.Base(rel)); ok {
				return true
			}
		}
	}
	return false
}

func matchSuffix(rel string, suffixes []string) string {
	for _, s := range suffixes {
		if strings.HasSuffix(rel, s) && len(rel) > len(s) {
			return s
		}
	}
	return ""
}

func sortedNames(m map[string]string) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
