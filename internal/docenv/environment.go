// Package docenv is the document environment: it discovers source documents,
// parses them lazily into doctrees and caches the result in memory and,
// optionally, in a persistent Store.
package docenv

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/doctree"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/frontmatter"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/markdown"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

// Environment holds every known document of a site. It is safe for
// concurrent use; watch mode invalidates entries while renders read them.
type Environment struct {
	dir      string
	suffixes []string
	excludes []string

	store    Store
	recorder metrics.Recorder
	buildID  string

	mu    sync.RWMutex
	files map[string]string // docname -> absolute path
	trees map[string]*doctree.Doctree
}

// Option configures an Environment.
type Option func(*Environment)

// WithStore enables the persistent doctree cache.
func WithStore(s Store) Option {
	return func(e *Environment) { e.store = s }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(e *Environment) {
		if r != nil {
			e.recorder = r
		}
	}
}

// WithBuildID overrides the generated build ID.
func WithBuildID(id string) Option {
	return func(e *Environment) { e.buildID = id }
}

// New discovers the documents under cfg.Source.Dir.
func New(cfg *config.Config, opts ...Option) (*Environment, error) {
	dir, err := filepath.Abs(cfg.Source.Dir)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve source directory").
			WithContext("path", cfg.Source.Dir).
			Build()
	}

	e := &Environment{
		dir:      dir,
		suffixes: cfg.Source.Suffixes,
		excludes: cfg.Source.ExcludePatterns,
		recorder: metrics.NoopRecorder{},
		buildID:  uuid.NewString(),
		trees:    make(map[string]*doctree.Doctree),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.Rescan(); err != nil {
		return nil, err
	}
	slog.Debug("Document environment ready",
		logfields.Path(e.dir),
		logfields.Count(len(e.files)),
		logfields.BuildID(e.buildID))
	return e, nil
}

// BuildID identifies this environment instance in persisted entries.
func (e *Environment) BuildID() string { return e.buildID }

// SourceDir is the absolute source directory.
func (e *Environment) SourceDir() string { return e.dir }

// Docnames returns all known document names in sorted order.
func (e *Environment) Docnames() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return sortedNames(e.files)
}

// Has reports whether name is a known document.
func (e *Environment) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.files[name]
	return ok
}

// DocnameForPath maps a file path under the source directory to its
// document name, whether or not the file currently exists.
func (e *Environment) DocnameForPath(p string) (string, bool) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(e.dir, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if isExcluded(rel, e.excludes) {
		return "", false
	}
	suffix := matchSuffix(rel, e.suffixes)
	if suffix == "" {
		return "", false
	}
	return strings.TrimSuffix(rel, suffix), true
}

// Doctree returns the parsed document. Unknown names are a not-found error.
func (e *Environment) Doctree(name string) (*doctree.Doctree, error) {
	e.mu.RLock()
	tree, cached := e.trees[name]
	file, known := e.files[name]
	e.mu.RUnlock()

	if cached {
		e.recorder.IncDoctreeLoad(metrics.DoctreeFromMemory)
		return tree, nil
	}
	if !known {
		return nil, errors.NotFoundError("unknown document").
			WithCause(ErrDocumentNotFound).
			WithContext("docname", name).
			Build()
	}

	tree, err := e.load(name, file)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.trees[name] = tree
	e.mu.Unlock()
	return tree, nil
}

// Title returns the document title.
func (e *Environment) Title(name string) (string, error) {
	tree, err := e.Doctree(name)
	if err != nil {
		return "", err
	}
	return tree.Title, nil
}

// Invalidate drops the cached doctree for name and re-checks whether its
// file still exists, adding or removing the name accordingly.
func (e *Environment) Invalidate(name string) {
	candidate := ""
	for _, s := range e.suffixes {
		p := filepath.Join(e.dir, filepath.FromSlash(name+s))
		if _, err := os.Stat(p); err == nil {
			candidate = p
			break
		}
	}

	e.mu.Lock()
	delete(e.trees, name)
	if candidate != "" {
		e.files[name] = candidate
		e.mu.Unlock()
		return
	}
	delete(e.files, name)
	e.mu.Unlock()

	if e.store == nil {
		return
	}
	if err := e.store.Delete(context.Background(), name); err != nil {
		slog.Warn("Failed to drop stored doctree", logfields.Docname(name), logfields.Error(err))
	}
}

// Rescan rediscovers documents and clears the in-memory cache. Persisted
// entries stay valid because they are keyed by fingerprint.
func (e *Environment) Rescan() error {
	files, err := discover(e.dir, e.suffixes, e.excludes)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.files = files
	e.trees = make(map[string]*doctree.Doctree)
	e.mu.Unlock()
	return nil
}

func (e *Environment) load(name, file string) (*doctree.Doctree, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read document").
			WithContext("docname", name).
			Build()
	}

	header, body, _, err := frontmatter.Split(content)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocs, "invalid frontmatter").
			WithContext("docname", name).
			Build()
	}
	fp := fingerprint(header, body)

	if tree, ok := e.fromStore(name, fp); ok {
		e.recorder.IncDoctreeLoad(metrics.DoctreeFromCache)
		return tree, nil
	}

	meta, err := frontmatter.Parse(header)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocs, "invalid frontmatter").
			WithContext("docname", name).
			Build()
	}

	lineOffset := bytes.Count(content[:len(content)-len(body)], []byte("\n"))
	outline, err := markdown.Parse(body, lineOffset)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryDocs, "failed to parse document").
			WithContext("docname", name).
			Build()
	}

	tree := &doctree.Doctree{
		Docname:      name,
		Title:        documentTitle(name, outline.Title, meta.Title),
		Orphan:       meta.Orphan,
		Sections:     outline.Sections,
		Declarations: outline.Declarations,
		Fingerprint:  fp,
	}
	e.recorder.IncDoctreeLoad(metrics.DoctreeFromParse)
	e.toStore(tree)
	return tree, nil
}

func (e *Environment) fromStore(name, fp string) (*doctree.Doctree, bool) {
	if e.store == nil {
		return nil, false
	}
	stored, found, err := e.store.Get(context.Background(), name)
	if err != nil {
		slog.Warn("Doctree cache read failed", logfields.Docname(name), logfields.Error(err))
		return nil, false
	}
	if !found || stored.Fingerprint != fp {
		return nil, false
	}
	var tree doctree.Doctree
	if err := json.Unmarshal(stored.Payload, &tree); err != nil {
		slog.Warn("Discarding undecodable cached doctree", logfields.Docname(name), logfields.Error(err))
		return nil, false
	}
	return &tree, true
}

func (e *Environment) toStore(tree *doctree.Doctree) {
	if e.store == nil {
		return
	}
	payload, err := json.Marshal(tree)
	if err != nil {
		slog.Warn("Failed to encode doctree for cache", logfields.Docname(tree.Docname), logfields.Error(err))
		return
	}
	err = e.store.Put(context.Background(), StoredDoctree{
		Docname:     tree.Docname,
		Fingerprint: tree.Fingerprint,
		Payload:     payload,
		BuildID:     e.buildID,
	})
	if err != nil {
		slog.Warn("Doctree cache write failed", logfields.Docname(tree.Docname), logfields.Error(err))
	}
}

// documentTitle prefers the first H1, then the frontmatter title, then the
// file's base name in title case.
func documentTitle(name, heading, metaTitle string) string {
	if heading != "" {
		return heading
	}
	if t := strings.TrimSpace(metaTitle); t != "" {
		return t
	}
	base := strings.NewReplacer("-", " ", "_", " ").Replace(path.Base(name))
	return cases.Title(language.English).String(base)
}
