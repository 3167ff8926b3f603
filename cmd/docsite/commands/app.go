package commands

import (
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/docenv"
	"git.home.luguber.info/inful/docsite/internal/linkcode"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/site"
	"git.home.luguber.info/inful/docsite/internal/toctree"
)

// app is the wired set of components a command works with.
type app struct {
	cfg       *config.Config
	env       *docenv.Environment
	store     docenv.Store
	fragments *toctree.FragmentRenderer
	links     *linkcode.Resolver
	hooks     *site.Hooks
}

// loadConfig reads the configuration and resolves its relative paths
// against the directory holding the config file.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if !c.Verbose {
		c.level.Set(cfg.Logging.Level.SlogLevel())
	}

	base := filepath.Dir(c.Config)
	cfg.Source.Dir = resolvePath(base, cfg.Source.Dir)
	cfg.SourceLink.ModuleRoot = resolvePath(base, cfg.SourceLink.ModuleRoot)
	if cfg.Cache.Path != "" && cfg.Cache.Path != ":memory:" {
		cfg.Cache.Path = resolvePath(base, cfg.Cache.Path)
	}
	return cfg, nil
}

func resolvePath(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// newApp loads the configuration and wires the document environment,
// the fragment renderer, source links and page hooks. Source links that
// cannot be set up are logged and disabled.
func (c *CLI) newApp(recorder metrics.Recorder) (*app, error) {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg}
	envOpts := []docenv.Option{docenv.WithRecorder(recorder)}
	if cfg.Cache.Path != "" {
		store, err := docenv.NewSQLiteStore(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		a.store = store
		envOpts = append(envOpts, docenv.WithStore(store))
	}

	a.env, err = docenv.New(cfg, envOpts...)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.fragments = toctree.NewFragmentRenderer(a.env,
		toctree.WithLinkSuffix(cfg.HTML.LinkSuffix),
		toctree.WithRecorder(recorder))

	var links site.SourceLinker
	if resolver, err := linkcode.FromConfig(cfg, recorder); err != nil {
		slog.Warn("Source links disabled", logfields.Path(cfg.SourceLink.ModuleRoot), logfields.Error(err))
	} else {
		a.links = resolver
		links = resolver
	}
	a.hooks = site.New(cfg, a.env, a.fragments, links)
	return a, nil
}

// Close releases the doctree store, if any.
func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
