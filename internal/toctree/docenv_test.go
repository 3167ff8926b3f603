package toctree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docenv"
)

func newDocenv(t *testing.T, files map[string]string) *docenv.Environment {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	env, err := docenv.New(&config.Config{Source: config.SourceConfig{Dir: dir, Suffixes: []string{".md"}}})
	require.NoError(t, err)
	return env
}

func TestRenderFragment_MalformedNestedDirectiveKeepsSiblings(t *testing.T) {
	env := newDocenv(t, map[string]string{
		"index.md": "# Home\n\n```{toctree}\ngood1\nbad\ngood2\n```\n",
		"good1.md": "# Good one\n",
		"good2.md": "# Good two\n",
		"bad.md":   "# Bad\n\n```{toctree}\n:maxdepth: x\n\ngood2\n```\n",
	})

	out, err := NewFragmentRenderer(env).RenderFragment("good1", "index", Options{})
	require.NoError(t, err)
	require.Contains(t, out, `<a class="current reference internal" href="#">Good one</a>`)
	require.Contains(t, out, `href="bad.html">Bad</a>`)
	require.Contains(t, out, `href="good2.html">Good two</a>`)
}

func TestRenderFragment_UnreadableEntryKeepsSiblings(t *testing.T) {
	env := newDocenv(t, map[string]string{
		"index.md":  "# Home\n\n```{toctree}\ngood1\nbroken\ngood2\n```\n",
		"good1.md":  "# Good one\n",
		"good2.md":  "# Good two\n",
		"broken.md": "---\ntitle: [unclosed\n---\n# Broken\n",
	})

	out, err := NewFragmentRenderer(env).RenderFragment("good1", "index", Options{})
	require.NoError(t, err)
	require.Contains(t, out, "Good one")
	require.Contains(t, out, "Good two")
	require.NotContains(t, out, "broken.html")
}

func TestRenderFragment_SourceWithOneMalformedDeclaration(t *testing.T) {
	env := newDocenv(t, map[string]string{
		"index.md": "# Home\n\n```{toctree}\nintro\n```\n\n```{toctree}\n:maxdepth: two\n:caption: More\n\nusage\n```\n",
		"intro.md": "# Introduction\n",
		"usage.md": "# Usage\n",
	})

	out, err := NewFragmentRenderer(env).RenderFragment("index", "index", Options{})
	require.NoError(t, err)
	require.Contains(t, out, `href="intro.html">Introduction</a>`)
	require.Contains(t, out, `<span class="caption-text">More</span>`)
	require.Contains(t, out, `href="usage.html">Usage</a>`)
}

func TestRenderFragment_ColonFenceDirective(t *testing.T) {
	env := newDocenv(t, map[string]string{
		"index.md": "# Home\n\n:::{toctree}\n:caption: Guides\n\nintro\n:::\n",
		"intro.md": "# Introduction\n",
	})

	out, err := NewFragmentRenderer(env).RenderFragment("index", "index", Options{})
	require.NoError(t, err)
	require.Contains(t, out, `<span class="caption-text">Guides</span>`)
	require.Contains(t, out, `href="intro.html">Introduction</a>`)
}
