package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/metrics"
)

const testConfig = `project:
  name: Demo
source:
  dir: docs
source_link:
  base_url: https://github.com/example/demo/blob/main
  root_strategy: marker
  root_marker: docsite-root/
  module_root: mod
html:
  sidebars:
    "guide/**": [sidebar_guide.html]
logging:
  level: warn
`

// testSite lays out a config, a few documents and a Go module below a
// docsite-root directory and returns the config path.
func testSite(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "docsite-root")
	files := map[string]string{
		"docsite.yaml":        testConfig,
		"docs/index.md":       "# Home\n\n```{toctree}\n:caption: Guide\n:maxdepth: 2\n\nguide/intro\nguide/usage\n```\n",
		"docs/guide/intro.md": "# Introduction\n\n## Install\n",
		"docs/guide/usage.md": "# Usage\n",
		"mod/go.mod":          "module example.com/demo\n",
		"mod/demo.go":         "package demo\n\n// Greet says hello.\nfunc Greet(name string) string {\n\treturn \"hello \" + name\n}\n",
	}
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return filepath.Join(root, "docsite.yaml")
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	var cli CLI
	parser, err := NewParser(&cli, &Global{Out: &out})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	err = ctx.Run()
	return out.String(), err
}

func TestFragmentCommand(t *testing.T) {
	cfg := testSite(t)

	out, err := run(t, "-c", cfg, "fragment", "guide/intro")
	require.NoError(t, err)
	assert.Contains(t, out, `<span class="caption-text">Guide</span>`)
	assert.Contains(t, out, `<a class="current reference internal" href="#">Introduction</a>`)
	assert.Contains(t, out, `href="usage.html"`)
	assert.Contains(t, out, `href="#install"`)

	out, err = run(t, "-c", cfg, "fragment", "guide/intro", "--titles-only")
	require.NoError(t, err)
	assert.NotContains(t, out, "Install")
}

func TestFragmentCommand_NoToctrees(t *testing.T) {
	out, err := run(t, "-c", testSite(t), "fragment", "index", "-d", "guide/usage")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFragmentCommand_UnknownDocument(t *testing.T) {
	_, err := run(t, "-c", testSite(t), "fragment", "index", "-d", "missing")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestSourceLinkCommand(t *testing.T) {
	cfg := testSite(t)

	out, err := run(t, "-c", cfg, "source-link", "example.com/demo", "Greet")
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/example/demo/blob/main/mod/demo.go#L4-L6\n", out)

	_, err = run(t, "-c", cfg, "source-link", "--domain", "py", "example.com/demo", "Greet")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestSymbolsCommand(t *testing.T) {
	cfg := testSite(t)

	out, err := run(t, "-c", cfg, "symbols")
	require.NoError(t, err)
	assert.Equal(t, "example.com/demo\n", out)

	out, err = run(t, "-c", cfg, "symbols", "example.com/demo")
	require.NoError(t, err)
	assert.Contains(t, out, "Greet\tfunc\t")
	assert.Contains(t, out, "demo.go:4-6")
}

func TestToctreesCommand(t *testing.T) {
	out, err := run(t, "-c", testSite(t), "toctrees")
	require.NoError(t, err)
	assert.Equal(t, "index: Home\ntoctree (line 3) caption=\"Guide\" maxdepth=2\n  guide/intro\n  guide/usage\n", out)
}

func TestPageCommand(t *testing.T) {
	cfg := testSite(t)
	tmpl := filepath.Join(filepath.Dir(cfg), "layout.html")
	require.NoError(t, os.WriteFile(tmpl, []byte(
		`<title>{{ .title }} - {{ .project }}</title>{{ range .sidebars }}[{{ . }}]{{ end }}{{ toctree_from_doc "index" "maxdepth" 1 }}|{{ source_link "example.com/demo" "Greet" }}`,
	), 0o600))

	out, err := run(t, "-c", cfg, "page", tmpl, "-p", "guide/usage")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<title>Usage - Demo</title>[sidebar_guide.html]"), out)
	assert.Contains(t, out, `href="intro.html"`)
	assert.Contains(t, out, "|https://github.com/example/demo/blob/main/mod/demo.go#L4-L6")

	dest := filepath.Join(t.TempDir(), "out", "usage.html")
	_, err = run(t, "-c", cfg, "page", tmpl, "-p", "guide/usage", "-o", dest)
	require.NoError(t, err)
	written, err := os.ReadFile(dest) // #nosec G304 -- test file
	require.NoError(t, err)
	assert.Equal(t, out, string(written))
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "docsite.yaml")

	out, err := run(t, "-c", cfg, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "initialized successfully")
	assert.FileExists(t, cfg)

	_, err = run(t, "-c", cfg, "init")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = run(t, "-c", cfg, "init", "--force")
	require.NoError(t, err)
}

func TestRunWatch_RefreshesChangedDocuments(t *testing.T) {
	cfg := testSite(t)
	var cli CLI
	cli.Config = cfg

	reg := prom.NewRegistry()
	a, err := cli.newApp(metrics.NewPrometheusRecorder(reg))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- RunWatch(ctx, a, reg, "", 20*time.Millisecond) }()

	usage := filepath.Join(a.env.SourceDir(), "guide", "usage.md")
	require.Eventually(t, func() bool {
		_ = os.WriteFile(usage, []byte("# Usage, revised\n"), 0o600)
		title, err := a.env.Title("guide/usage")
		return err == nil && title == "Usage, revised"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}
