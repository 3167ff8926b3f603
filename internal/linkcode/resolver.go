// Package linkcode resolves documented symbols to "view source" URLs.
package linkcode

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/symbols"
)

// Domain is the only cross-reference domain with source links.
const Domain = "go"

// PathRelativizer turns an absolute source path into a repository path.
type PathRelativizer interface {
	Relativize(absPath string) (string, bool)
}

// Resolver maps (domain, module, fullname) to a source URL. It never
// returns an error: every miss means "no link".
type Resolver struct {
	registry    symbols.Registry
	relativizer PathRelativizer
	baseURL     string
	recorder    metrics.Recorder
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(res *Resolver) {
		if r != nil {
			res.recorder = r
		}
	}
}

// New creates a Resolver. An empty baseURL disables all links.
func New(registry symbols.Registry, relativizer PathRelativizer, baseURL string, opts ...Option) *Resolver {
	r := &Resolver{
		registry:    registry,
		relativizer: relativizer,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the source URL for fullname inside module.
func (r *Resolver) Resolve(domain, module, fullname string) (string, bool) {
	log := slog.With(logfields.Domain(domain), logfields.Module(module), logfields.Symbol(fullname))

	if domain != Domain {
		log.Debug("Source link skipped: unsupported domain")
		return r.miss(metrics.OutcomeWrongDomain)
	}
	if r.baseURL == "" {
		log.Debug("Source link skipped: no base URL configured")
		return r.miss(metrics.OutcomeLinksDisabled)
	}

	obj, ok := r.registry.Lookup(module)
	if !ok {
		log.Debug("Source link skipped: module not loaded")
		return r.miss(metrics.OutcomeNoModule)
	}

	for _, part := range strings.Split(fullname, ".") {
		next, ok := obj.Attr(part)
		if !ok {
			log.Debug("Source link skipped: attribute not found", slog.String("attribute", part))
			return r.miss(metrics.OutcomeNoAttribute)
		}
		obj = next
	}
	log.Debug("Source link object resolved", slog.String("kind", obj.Kind().String()))

	loc, ok := symbols.Locate(obj)
	if !ok {
		log.Debug("Source link skipped: no source file")
		return r.miss(metrics.OutcomeNoSourceFile)
	}

	suffix := ""
	if loc.HasLines {
		suffix = fmt.Sprintf("#L%d-L%d", loc.Start, loc.End())
	} else {
		log.Debug("Source link has no line range, linking whole file", logfields.Path(loc.File))
	}

	rel, ok := r.relativizer.Relativize(loc.File)
	if !ok {
		log.Debug("Source link skipped: file outside repository", logfields.Path(loc.File))
		return r.miss(metrics.OutcomeNoRepoPath)
	}

	url := r.baseURL + "/" + rel + suffix
	log.Debug("Source link resolved", logfields.URL(url))
	r.recorder.IncSourceLink(metrics.OutcomeSuccess)
	return url, true
}

func (r *Resolver) miss(outcome metrics.Outcome) (string, bool) {
	r.recorder.IncSourceLink(outcome)
	return "", false
}
