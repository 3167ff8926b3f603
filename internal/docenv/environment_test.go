package docenv

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

type countingRecorder struct {
	metrics.NoopRecorder
	loads map[metrics.DoctreeSource]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{loads: map[metrics.DoctreeSource]int{}}
}

func (r *countingRecorder) IncDoctreeLoad(source metrics.DoctreeSource) { r.loads[source]++ }

func writeDoc(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func testConfig(dir string) *config.Config {
	return &config.Config{Source: config.SourceConfig{
		Dir:             dir,
		Suffixes:        []string{".md"},
		ExcludePatterns: []string{"_build", "README.md"},
	}}
}

func newSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "index.md", "# Home\n\n```{toctree}\n:maxdepth: 2\n\nguide/intro\n```\n")
	writeDoc(t, dir, "guide/intro.md", "---\ntitle: Ignored\n---\n# Introduction\n\n## Install\n")
	writeDoc(t, dir, "guide/getting-started.md", "Just text.\n")
	writeDoc(t, dir, "about.md", "---\ntitle: About Us\norphan: true\n---\nNo heading.\n")
	writeDoc(t, dir, "README.md", "# Readme\n")
	writeDoc(t, dir, "_build/html/index.md", "# Built\n")
	writeDoc(t, dir, ".drafts/wip.md", "# WIP\n")
	writeDoc(t, dir, "notes.txt", "not a document\n")
	return dir
}

func TestNew_DiscoversDocuments(t *testing.T) {
	env, err := New(testConfig(newSite(t)))
	require.NoError(t, err)
	require.Equal(t, []string{"about", "guide/getting-started", "guide/intro", "index"}, env.Docnames())
	require.NotEmpty(t, env.BuildID())
	require.True(t, env.Has("index"))
	require.False(t, env.Has("README"))
}

func TestNew_MissingSourceDir(t *testing.T) {
	_, err := New(testConfig(filepath.Join(t.TempDir(), "nope")))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrSourceDirMissing)
	require.True(t, errors.HasCategory(err, errors.CategoryDocs))
}

func TestDoctree_Parses(t *testing.T) {
	env, err := New(testConfig(newSite(t)))
	require.NoError(t, err)

	tree, err := env.Doctree("index")
	require.NoError(t, err)
	require.Equal(t, "index", tree.Docname)
	require.Equal(t, "Home", tree.Title)
	require.Len(t, tree.Declarations, 1)
	require.Equal(t, 2, tree.Declarations[0].MaxDepth)
	require.Equal(t, 3, tree.Declarations[0].Line)
	require.NotEmpty(t, tree.Fingerprint)

	intro, err := env.Doctree("guide/intro")
	require.NoError(t, err)
	require.Equal(t, "Introduction", intro.Title)
	require.Len(t, intro.Sections, 1)
	require.Equal(t, "install", intro.Sections[0].Anchor)
}

func TestDoctree_UnknownDocument(t *testing.T) {
	env, err := New(testConfig(newSite(t)))
	require.NoError(t, err)

	_, err = env.Doctree("missing")
	require.Error(t, err)
	require.True(t, stderrors.Is(err, ErrDocumentNotFound))
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestTitle_Fallbacks(t *testing.T) {
	env, err := New(testConfig(newSite(t)))
	require.NoError(t, err)

	title, err := env.Title("about")
	require.NoError(t, err)
	require.Equal(t, "About Us", title)

	title, err = env.Title("guide/getting-started")
	require.NoError(t, err)
	require.Equal(t, "Getting Started", title)

	tree, err := env.Doctree("about")
	require.NoError(t, err)
	require.True(t, tree.Orphan)
}

func TestDoctree_MemoryCache(t *testing.T) {
	rec := newCountingRecorder()
	env, err := New(testConfig(newSite(t)), WithRecorder(rec))
	require.NoError(t, err)

	first, err := env.Doctree("index")
	require.NoError(t, err)
	second, err := env.Doctree("index")
	require.NoError(t, err)
	require.Same(t, first, second)
	require.Equal(t, 1, rec.loads[metrics.DoctreeFromParse])
	require.Equal(t, 1, rec.loads[metrics.DoctreeFromMemory])
}

func TestDoctree_PersistentStore(t *testing.T) {
	dir := newSite(t)
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env, err := New(testConfig(dir), WithStore(store), WithBuildID("build-1"))
	require.NoError(t, err)
	parsed, err := env.Doctree("guide/intro")
	require.NoError(t, err)

	stored, found, err := store.Get(t.Context(), "guide/intro")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "build-1", stored.BuildID)
	require.Equal(t, parsed.Fingerprint, stored.Fingerprint)

	rec := newCountingRecorder()
	again, err := New(testConfig(dir), WithStore(store), WithRecorder(rec))
	require.NoError(t, err)
	cached, err := again.Doctree("guide/intro")
	require.NoError(t, err)
	require.Equal(t, parsed, cached)
	require.Equal(t, 1, rec.loads[metrics.DoctreeFromCache])

	writeDoc(t, dir, "guide/intro.md", "# Introduction v2\n")
	again.Invalidate("guide/intro")
	changed, err := again.Doctree("guide/intro")
	require.NoError(t, err)
	require.Equal(t, "Introduction v2", changed.Title)
	require.Equal(t, 1, rec.loads[metrics.DoctreeFromParse])
}

func TestInvalidate_AddsAndRemoves(t *testing.T) {
	dir := newSite(t)
	env, err := New(testConfig(dir))
	require.NoError(t, err)

	_, err = env.Doctree("index")
	require.NoError(t, err)

	writeDoc(t, dir, "changelog.md", "# Changelog\n")
	env.Invalidate("changelog")
	require.True(t, env.Has("changelog"))

	require.NoError(t, os.Remove(filepath.Join(dir, "index.md")))
	env.Invalidate("index")
	require.False(t, env.Has("index"))
	_, err = env.Doctree("index")
	require.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestRescan(t *testing.T) {
	dir := newSite(t)
	env, err := New(testConfig(dir))
	require.NoError(t, err)

	writeDoc(t, dir, "extra/page.md", "# Page\n")
	require.False(t, env.Has("extra/page"))
	require.NoError(t, env.Rescan())
	require.True(t, env.Has("extra/page"))
}

func TestDocnameForPath(t *testing.T) {
	dir := newSite(t)
	env, err := New(testConfig(dir))
	require.NoError(t, err)

	name, ok := env.DocnameForPath(filepath.Join(dir, "guide", "intro.md"))
	require.True(t, ok)
	require.Equal(t, "guide/intro", name)

	_, ok = env.DocnameForPath(filepath.Join(dir, "notes.txt"))
	require.False(t, ok)
	_, ok = env.DocnameForPath(filepath.Join(dir, "README.md"))
	require.False(t, ok)
	_, ok = env.DocnameForPath(filepath.Join(filepath.Dir(dir), "outside.md"))
	require.False(t, ok)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache", "doctrees.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := t.Context()

	_, found, err := store.Get(ctx, "index")
	require.NoError(t, err)
	require.False(t, found)

	when := time.Unix(1700000000, 0)
	require.NoError(t, store.Put(ctx, StoredDoctree{Docname: "index", Fingerprint: "a", Payload: []byte(`{}`), BuildID: "b1", UpdatedAt: when}))
	require.NoError(t, store.Put(ctx, StoredDoctree{Docname: "index", Fingerprint: "b", Payload: []byte(`{"title":"x"}`), BuildID: "b2", UpdatedAt: when}))

	got, found, err := store.Get(ctx, "index")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, StoredDoctree{Docname: "index", Fingerprint: "b", Payload: []byte(`{"title":"x"}`), BuildID: "b2", UpdatedAt: when}, got)

	require.NoError(t, store.Delete(ctx, "index"))
	_, found, err = store.Get(ctx, "index")
	require.NoError(t, err)
	require.False(t, found)
}

func TestInvalidate_RemovedDocumentLeavesStore(t *testing.T) {
	dir := newSite(t)
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	env, err := New(testConfig(dir), WithStore(store))
	require.NoError(t, err)
	_, err = env.Doctree("guide/intro")
	require.NoError(t, err)

	_, found, err := store.Get(t.Context(), "guide/intro")
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, os.Remove(filepath.Join(dir, "guide", "intro.md")))
	env.Invalidate("guide/intro")

	_, found, err = store.Get(t.Context(), "guide/intro")
	require.NoError(t, err)
	require.False(t, found)
}
