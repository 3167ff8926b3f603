package toctree

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/doctree"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/render"
)

type fakeEnv struct {
	docs  map[string]*doctree.Doctree
	fails map[string]error
	reads int
}

func (f *fakeEnv) Doctree(name string) (*doctree.Doctree, error) {
	f.reads++
	if err, ok := f.fails[name]; ok {
		return nil, err
	}
	d, ok := f.docs[name]
	if !ok {
		return nil, errors.NotFoundError("unknown document").WithContext("docname", name).Build()
	}
	return d, nil
}

func (f *fakeEnv) Docnames() []string {
	names := make([]string, 0, len(f.docs))
	for n := range f.docs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func doc(name, title string, decls ...*doctree.Declaration) *doctree.Doctree {
	return &doctree.Doctree{Docname: name, Title: title, Declarations: decls}
}

func decl(entries ...string) *doctree.Declaration {
	d := &doctree.Declaration{}
	for _, e := range entries {
		d.Entries = append(d.Entries, doctree.Entry{Target: e})
	}
	return d
}

// site is a small documentation tree:
//
//	index -> [guide/index, reference] + [changelog]
//	guide/index -> [intro, usage]
//	guide/intro has sections Install > From source
func site() *fakeEnv {
	nav := decl("guide/index", "reference")
	nav.Caption = "Guides"
	extra := decl("changelog", "https://example.com/roadmap")
	extra.Caption = "Project"

	intro := doc("guide/intro", "Introduction")
	intro.Sections = []*doctree.Section{{
		Title: "Install", Anchor: "install", Level: 2,
		Children: []*doctree.Section{{Title: "From source", Anchor: "from-source", Level: 3}},
	}}

	return &fakeEnv{docs: map[string]*doctree.Doctree{
		"index":       doc("index", "Home", nav, extra),
		"guide/index": doc("guide/index", "Guide", decl("intro", "usage")),
		"guide/intro": intro,
		"guide/usage": doc("guide/usage", "Usage"),
		"reference":   doc("reference", "Reference"),
		"changelog":   doc("changelog", "Changelog"),
		"empty":       doc("empty", "Nothing here"),
	}}
}

func titles(items []*render.Item) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestRenderFragment_NoDeclarations(t *testing.T) {
	f := NewFragmentRenderer(site())
	out, err := f.RenderFragment("index", "empty", Options{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestRenderFragment_UnknownSourcePropagates(t *testing.T) {
	f := NewFragmentRenderer(site())
	_, err := f.RenderFragment("index", "nope", Options{})
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestRenderFragment_EmptyResolutionIsEmptyString(t *testing.T) {
	env := site()
	hidden := decl("reference")
	hidden.Hidden = true
	env.docs["hidden"] = doc("hidden", "Hidden", hidden)
	env.docs["dangling"] = doc("dangling", "Dangling", decl("missing/one", "missing/two"))
	env.docs["blank"] = doc("blank", "Blank", &doctree.Declaration{})

	f := NewFragmentRenderer(env)
	for _, source := range []string{"hidden", "dangling", "blank"} {
		out, err := f.RenderFragment("index", source, Options{})
		require.NoError(t, err, source)
		require.Empty(t, out, source)
	}
}

func TestRenderFragment_MergesInDeclarationOrder(t *testing.T) {
	f := NewFragmentRenderer(site())
	out, err := f.RenderFragment("reference", "index", Options{MaxDepth: 1})
	require.NoError(t, err)

	order := []string{"Guides", "Guide", "Reference", "Project", "Changelog", "https://example.com/roadmap"}
	last := -1
	for _, s := range order {
		idx := strings.Index(out, ">"+s+"<")
		require.Greater(t, idx, last, "expected %q after previous entries in %s", s, out)
		last = idx
	}
	require.Equal(t, 2, strings.Count(out, `<p class="caption" role="heading">`))
}

func TestRenderFragment_Idempotent(t *testing.T) {
	f := NewFragmentRenderer(site())
	first, err := f.RenderFragment("guide/intro", "index", Options{Collapse: true})
	require.NoError(t, err)
	second, err := f.RenderFragment("guide/intro", "index", Options{Collapse: true})
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestRenderFragment_ResolvesAgainstCurrentPage(t *testing.T) {
	f := NewFragmentRenderer(site())
	out, err := f.RenderFragment("guide/intro", "index", Options{MaxDepth: 2})
	require.NoError(t, err)

	require.Contains(t, out, `<a class="reference internal" href="index.html">Guide</a>`)
	require.Contains(t, out, `<a class="reference internal" href="../reference.html">Reference</a>`)
	require.Contains(t, out, `<li class="toctree-l2 current"><a class="current reference internal" href="#">Introduction</a></li>`)
	require.Contains(t, out, `<a class="reference external" href="https://example.com/roadmap">`)
}

func TestRenderFragment_UnloadableEntryIsSkipped(t *testing.T) {
	env := site()
	env.fails = map[string]error{"reference": errors.DocsError("invalid frontmatter").Build()}
	f := NewFragmentRenderer(env)

	out, err := f.RenderFragment("index", "index", Options{})
	require.NoError(t, err)
	require.Contains(t, out, "Guides")
	require.Contains(t, out, `href="guide/index.html"`)
	require.NotContains(t, out, "reference.html")
	require.Contains(t, out, "Changelog")
}

func TestResolve_Depth(t *testing.T) {
	env := site()
	r := NewResolver(env, ".html")
	nav := env.docs["index"].Declarations[0]

	tree, err := r.Resolve(nav, "index", "index", Options{})
	require.NoError(t, err)
	guide := tree.Lists[0].Items[0]
	require.Equal(t, []string{"Introduction", "Usage"}, titles(guide.Children))
	require.Equal(t, []string{"Install"}, titles(guide.Children[0].Children))
	require.Equal(t, []string{"From source"}, titles(guide.Children[0].Children[0].Children))
	require.Equal(t, 4, guide.Children[0].Children[0].Children[0].Level)

	tree, err = r.Resolve(nav, "index", "index", Options{MaxDepth: 2})
	require.NoError(t, err)
	guide = tree.Lists[0].Items[0]
	require.Len(t, guide.Children, 2)
	require.Empty(t, guide.Children[0].Children)

	nav.MaxDepth = 1
	t.Cleanup(func() { nav.MaxDepth = 0 })
	tree, err = r.Resolve(nav, "index", "index", Options{})
	require.NoError(t, err)
	require.Empty(t, tree.Lists[0].Items[0].Children)

	tree, err = r.Resolve(nav, "index", "index", Options{MaxDepth: 3})
	require.NoError(t, err)
	require.Len(t, tree.Lists[0].Items[0].Children[0].Children, 1, "caller depth overrides declaration")
}

func TestResolve_TitlesOnly(t *testing.T) {
	env := site()
	r := NewResolver(env, ".html")
	tree, err := r.Resolve(env.docs["guide/index"].Declarations[0], "guide/index", "guide/index", Options{TitlesOnly: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Introduction", "Usage"}, titles(tree.Lists[0].Items))
	require.Empty(t, tree.Lists[0].Items[0].Children)
}

func TestResolve_Collapse(t *testing.T) {
	env := site()
	env.docs["reference"].Sections = []*doctree.Section{{Title: "API", Anchor: "api", Level: 2}}
	r := NewResolver(env, ".html")
	nav := env.docs["index"].Declarations[0]

	tree, err := r.Resolve(nav, "index", "guide/usage", Options{Collapse: true})
	require.NoError(t, err)
	guide, reference := tree.Lists[0].Items[0], tree.Lists[0].Items[1]

	require.True(t, guide.OnPath)
	require.False(t, guide.Current)
	require.Equal(t, []string{"Introduction", "Usage"}, titles(guide.Children))
	require.Empty(t, guide.Children[0].Children, "sibling branch collapsed")
	require.True(t, guide.Children[1].Current)
	require.Equal(t, "#", guide.Children[1].URL)
	require.Empty(t, reference.Children, "off-path top level entry collapsed")
	require.Equal(t, "../reference.html", reference.URL)
}

func TestResolve_HiddenAndIncludeHidden(t *testing.T) {
	env := site()
	hiddenChild := decl("/reference")
	hiddenChild.Hidden = true
	env.docs["guide/usage"].Declarations = []*doctree.Declaration{hiddenChild}
	r := NewResolver(env, ".html")
	guideNav := env.docs["guide/index"].Declarations[0]

	tree, err := r.Resolve(guideNav, "guide/index", "guide/index", Options{})
	require.NoError(t, err)
	require.Empty(t, tree.Lists[0].Items[1].Children)

	tree, err = r.Resolve(guideNav, "guide/index", "guide/index", Options{IncludeHidden: true})
	require.NoError(t, err)
	require.Equal(t, []string{"Reference"}, titles(tree.Lists[0].Items[1].Children))

	tree, err = r.Resolve(hiddenChild, "guide/usage", "guide/usage", Options{})
	require.NoError(t, err)
	require.Nil(t, tree)
}

func TestResolve_GlobSelfAndExplicitTitles(t *testing.T) {
	env := site()
	globbed := &doctree.Declaration{Glob: true, Entries: []doctree.Entry{
		{Target: "self"},
		{Target: "*"},
		{Title: "Top", Target: "/index"},
	}}
	env.docs["guide/index"].Declarations = []*doctree.Declaration{globbed}
	r := NewResolver(env, ".html")

	tree, err := r.Resolve(globbed, "guide/index", "index", Options{MaxDepth: 1})
	require.NoError(t, err)
	items := tree.Lists[0].Items
	require.Equal(t, []string{"Guide", "Introduction", "Usage", "Top"}, titles(items))
	require.Equal(t, "guide/index.html", items[0].URL)
	require.Equal(t, "guide/intro.html", items[1].URL)
	require.Equal(t, "#", items[3].URL)
}

func TestResolve_CycleIsSkipped(t *testing.T) {
	env := site()
	env.docs["a"] = doc("a", "A", decl("b"))
	env.docs["b"] = doc("b", "B", decl("a", "reference"))
	r := NewResolver(env, ".html")

	tree, err := r.Resolve(env.docs["a"].Declarations[0], "a", "a", Options{})
	require.NoError(t, err)
	b := tree.Lists[0].Items[0]
	require.Equal(t, "B", b.Title)
	require.Equal(t, []string{"Reference"}, titles(b.Children))
}

func TestResolve_SectionAnchors(t *testing.T) {
	env := site()
	r := NewResolver(env, ".html")
	guideNav := env.docs["guide/index"].Declarations[0]

	tree, err := r.Resolve(guideNav, "guide/index", "guide/intro", Options{})
	require.NoError(t, err)
	install := tree.Lists[0].Items[0].Children[0]
	require.Equal(t, "#install", install.URL)
	require.False(t, install.Current)

	tree, err = r.Resolve(guideNav, "guide/index", "index", Options{})
	require.NoError(t, err)
	require.Equal(t, "guide/intro.html#install", tree.Lists[0].Items[0].Children[0].URL)
}

func TestMerge(t *testing.T) {
	a := &render.Tree{Lists: []*render.List{{Caption: "A"}}}
	b := &render.Tree{Lists: []*render.List{{Caption: "B"}, {Caption: "C"}}}

	require.Nil(t, Merge())
	require.Nil(t, Merge(nil, nil))

	merged := Merge(nil, a, nil, b)
	require.Len(t, merged.Lists, 3)
	require.Equal(t, "A", merged.Lists[0].Caption)
	require.Equal(t, "C", merged.Lists[2].Caption)
	require.Len(t, a.Lists, 1, "inputs are not mutated")
}

func TestRenderFragment_DoesNotMutateEnvironment(t *testing.T) {
	env := site()
	before := *env.docs["index"].Declarations[0]
	f := NewFragmentRenderer(env)

	_, err := f.RenderFragment("guide/intro", "index", Options{Collapse: true, MaxDepth: 1})
	require.NoError(t, err)
	require.Equal(t, before, *env.docs["index"].Declarations[0])
	require.Len(t, env.docs["guide/intro"].Sections[0].Children, 1)
}
