package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docenv"
	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/toctree"
)

type fakeLinker map[string]string

func (f fakeLinker) Resolve(domain, module, fullname string) (string, bool) {
	url, ok := f[domain+":"+module+":"+fullname]
	return url, ok
}

func writeDoc(t *testing.T, dir, rel, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
}

func newHooks(t *testing.T) *Hooks {
	t.Helper()
	dir := t.TempDir()
	writeDoc(t, dir, "index.md", "# Getting Started\n\n```{toctree}\n:caption: Checks\n\noss/checks/index\n```\n")
	writeDoc(t, dir, "oss/checks/index.md", "# Checks\n\n```{toctree}\n:maxdepth: 1\n\nconformity\n```\n")
	writeDoc(t, dir, "oss/checks/conformity.md", "# Conformity\n\n## Rules\n")

	t.Setenv("DOCSITE_SITE_TEST_VERSION", "v2")
	cfg := &config.Config{
		Project: config.ProjectConfig{Name: "Giskard", Author: "Giskard AI", Copyright: "2026, Giskard AI"},
		Source:  config.SourceConfig{Dir: dir, Suffixes: []string{".md"}},
		HTML: config.HTMLConfig{
			LinkSuffix: ".html",
			Sidebars: map[string][]string{
				"oss/checks/**": {"sidebar_main_nav_links.html", "sidebars/sidebar_oss_checks.html"},
			},
		},
		Theme: config.ThemeConfig{MainNavLinks: []config.NavLink{
			{Title: "Getting Started", URL: "/index"},
			{Title: "Checks", URL: "/oss/checks/index"},
			{Title: "Blog", URL: "https://example.com/blog"},
		}},
		Version: config.VersionConfig{EnvVar: "DOCSITE_SITE_TEST_VERSION"},
	}
	env, err := docenv.New(cfg)
	require.NoError(t, err)
	renderer := toctree.NewFragmentRenderer(env, toctree.WithLinkSuffix(cfg.HTML.LinkSuffix))
	links := fakeLinker{"go:example.com/hub:Client": "https://src/client.go#L1-L2"}
	return New(cfg, env, renderer, links)
}

func TestPageContext(t *testing.T) {
	h := newHooks(t)
	ctx := h.PageContext("oss/checks/conformity")

	require.Equal(t, "Giskard", ctx["project"])
	require.Equal(t, "2026, Giskard AI", ctx["copyright"])
	require.Equal(t, "v2", ctx["docs_version"])
	require.Equal(t, "Conformity", ctx["title"])
	require.Equal(t, []string{"sidebar_main_nav_links.html", "sidebars/sidebar_oss_checks.html"}, ctx["sidebars"])
	require.Equal(t, []NavLink{
		{Title: "Getting Started", URL: "../../index.html"},
		{Title: "Checks", URL: "index.html"},
		{Title: "Blog", URL: "https://example.com/blog"},
	}, ctx["main_nav_links"])
	require.Contains(t, ctx, "toctree_from_doc")
	require.Contains(t, ctx, "source_link")

	root := h.PageContext("index")
	require.Nil(t, root["sidebars"])
	require.True(t, root["main_nav_links"].([]NavLink)[0].Current)
}

func TestRenderPage(t *testing.T) {
	h := newHooks(t)
	tmpl, err := h.ParseTemplate("layout.html",
		`<nav>{{ toctree_from_doc "oss/checks/index" "maxdepth" 1 }}</nav>`+
			`<a href="{{ source_link "example.com/hub" "Client" }}">src</a>`+
			`<a href="{{ source_link "example.com/hub" "Missing" }}">none</a>`+
			`<h1>{{ .title }}</h1>`)
	require.NoError(t, err)

	out, err := h.RenderPage("oss/checks/conformity", tmpl)
	require.NoError(t, err)
	require.Equal(t,
		`<nav><ul class="current"><li class="toctree-l1 current"><a class="current reference internal" href="#">Conformity</a></li></ul></nav>`+
			`<a href="https://src/client.go#L1-L2">src</a>`+
			`<a href="">none</a>`+
			`<h1>Conformity</h1>`, out)

	// The same parsed template renders other pages with their own context.
	out, err = h.RenderPage("index", tmpl)
	require.NoError(t, err)
	require.Contains(t, out, `href="oss/checks/conformity.html">Conformity</a>`)
}

func TestRenderPage_UnknownDocumentFails(t *testing.T) {
	h := newHooks(t)
	tmpl, err := h.ParseTemplate("layout.html", `{{ toctree_from_doc "nope" }}`)
	require.NoError(t, err)
	_, err = h.RenderPage("index", tmpl)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryRender))
}

func TestParseToctreeOptions(t *testing.T) {
	opts, err := ParseToctreeOptions("maxdepth", 2, "titles_only", true, "collapse", "true", "includehidden", false)
	require.NoError(t, err)
	require.Equal(t, toctree.Options{MaxDepth: 2, TitlesOnly: true, Collapse: true}, opts)

	opts, err = ParseToctreeOptions("maxdepth", "-1")
	require.NoError(t, err)
	require.Equal(t, -1, opts.MaxDepth)

	for _, bad := range [][]any{
		{"maxdepth"},
		{1, 2},
		{"depth", 1},
		{"maxdepth", "deep"},
		{"collapse", 1},
	} {
		_, err := ParseToctreeOptions(bad...)
		require.Error(t, err, bad)
		require.True(t, errors.HasCategory(err, errors.CategoryValidation), bad)
	}
}

func TestMatchSidebars(t *testing.T) {
	sidebars := map[string][]string{
		"**":               {"default.html"},
		"oss/checks/**":    {"checks.html"},
		"oss/checks/index": {"checks-index.html"},
		"hub/*/index":      {"hub.html"},
	}
	require.Equal(t, []string{"checks-index.html"}, MatchSidebars(sidebars, "oss/checks/index"))
	require.Equal(t, []string{"checks.html"}, MatchSidebars(sidebars, "oss/checks/deep/page"))
	require.Equal(t, []string{"hub.html"}, MatchSidebars(sidebars, "hub/sdk/index"))
	require.Equal(t, []string{"default.html"}, MatchSidebars(sidebars, "hub/sdk/reference/api"))
	require.Nil(t, MatchSidebars(nil, "index"))
}
