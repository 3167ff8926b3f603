package linkcode

import (
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
	"git.home.luguber.info/inful/docsite/internal/forge"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/repopath"
	"git.home.luguber.info/inful/docsite/internal/symbols"
)

// HeadBranch asks for the branch checked out at the module root.
const HeadBranch = "HEAD"

// FromConfig loads the Go module at source_link.module_root and builds a
// Resolver using the configured base URL and root strategy.
func FromConfig(cfg *config.Config, recorder metrics.Recorder) (*Resolver, error) {
	sl := cfg.SourceLink
	reg, err := symbols.LoadGoModule(sl.ModuleRoot)
	if err != nil {
		return nil, err
	}
	base := forge.SourceBaseURL(resolveHeadBranch(cfg))
	slog.Debug("Source links configured", logfields.URL(base), logfields.Path(sl.ModuleRoot))
	return New(reg, repopath.FromConfig(sl), base, WithRecorder(recorder)), nil
}

// resolveHeadBranch substitutes the checked-out branch for "HEAD", falling
// back to the docs version mapping when it cannot be read.
func resolveHeadBranch(cfg *config.Config) *config.Config {
	if !strings.EqualFold(strings.TrimSpace(cfg.SourceLink.Branch), HeadBranch) {
		return cfg
	}
	out := *cfg
	out.SourceLink.Branch = ""
	if branch, ok := repopath.CurrentBranch(cfg.SourceLink.ModuleRoot); ok {
		out.SourceLink.Branch = branch
	}
	return &out
}
