package toctree

import (
	"log/slog"
	"time"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/render"
)

// DefaultLinkSuffix is the output suffix appended to document names.
const DefaultLinkSuffix = ".html"

// FragmentRenderer renders the navigation declared inside one document as it
// should appear on another page.
type FragmentRenderer struct {
	env      Environment
	resolver *Resolver
	recorder metrics.Recorder
}

// RendererOption configures a FragmentRenderer.
type RendererOption func(*rendererConfig)

type rendererConfig struct {
	linkSuffix string
	recorder   metrics.Recorder
}

// WithLinkSuffix sets the output suffix used to build URIs.
func WithLinkSuffix(s string) RendererOption {
	return func(c *rendererConfig) { c.linkSuffix = s }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) RendererOption {
	return func(c *rendererConfig) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewFragmentRenderer creates a renderer over env.
func NewFragmentRenderer(env Environment, opts ...RendererOption) *FragmentRenderer {
	cfg := rendererConfig{linkSuffix: DefaultLinkSuffix, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &FragmentRenderer{
		env:      env,
		resolver: NewResolver(env, cfg.linkSuffix),
		recorder: cfg.recorder,
	}
}

// RenderFragment resolves every toctree declared in sourceDoc relative to
// currentPage, merges them and renders HTML. A document without toctrees,
// or whose toctrees all resolve to nothing, renders as "". A sourceDoc the
// environment does not know is an error.
func (f *FragmentRenderer) RenderFragment(currentPage, sourceDoc string, opts Options) (string, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		f.recorder.ObserveFragmentDuration(elapsed)
		slog.Debug("Toctree fragment rendered",
			logfields.Docname(sourceDoc),
			logfields.Page(currentPage),
			logfields.DurationMS(float64(elapsed.Microseconds())/1000))
	}()

	tree, err := f.Tree(currentPage, sourceDoc, opts)
	if err != nil {
		f.recorder.IncFragmentRender(metrics.OutcomeError)
		return "", err
	}
	if tree == nil {
		f.recorder.IncFragmentRender(metrics.OutcomeEmpty)
		return "", nil
	}

	out, err := render.Fragment(tree)
	if err != nil {
		f.recorder.IncFragmentRender(metrics.OutcomeError)
		return "", errors.WrapError(err, errors.CategoryRender, "failed to render toctree fragment").
			WithContext("docname", sourceDoc).
			WithContext("page", currentPage).
			Build()
	}
	f.recorder.IncFragmentRender(metrics.OutcomeSuccess)
	return out, nil
}

// Tree resolves and merges the toctrees of sourceDoc without rendering.
// It returns nil when there is nothing to show.
func (f *FragmentRenderer) Tree(currentPage, sourceDoc string, opts Options) (*render.Tree, error) {
	doc, err := f.env.Doctree(sourceDoc)
	if err != nil {
		return nil, err
	}
	if len(doc.Declarations) == 0 {
		return nil, nil
	}

	resolved := make([]*render.Tree, 0, len(doc.Declarations))
	for _, decl := range doc.Declarations {
		t, err := f.resolver.Resolve(decl, sourceDoc, currentPage, opts)
		if err != nil {
			// A broken declaration only loses its own entries.
			slog.Warn("Dropping unresolvable toctree",
				logfields.Docname(sourceDoc),
				logfields.Page(currentPage),
				slog.Int("line", decl.Line),
				logfields.Error(err))
			continue
		}
		resolved = append(resolved, t)
	}

	merged := Merge(resolved...)
	slog.Debug("Resolved toctree fragment",
		logfields.Docname(sourceDoc),
		logfields.Page(currentPage),
		logfields.Count(len(doc.Declarations)))
	return merged, nil
}
