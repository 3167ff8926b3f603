package config

import (
	"fmt"
	"time"
)

// DefaultVersionEnvVar is read for the docs version when none is configured.
const DefaultVersionEnvVar = "READTHEDOCS_VERSION"

var now = time.Now

func applyDefaults(cfg *Config) {
	if cfg.Project.Name == "" {
		cfg.Project.Name = "Documentation"
	}
	if cfg.Project.Author == "" {
		cfg.Project.Author = cfg.Project.Name
	}
	if cfg.Project.Copyright == "" {
		cfg.Project.Copyright = fmt.Sprintf("%d, %s", now().Year(), cfg.Project.Author)
	}

	if cfg.Source.Dir == "" {
		cfg.Source.Dir = "docs"
	}
	if len(cfg.Source.Suffixes) == 0 {
		cfg.Source.Suffixes = []string{".md"}
	}
	if cfg.Source.ExcludePatterns == nil {
		cfg.Source.ExcludePatterns = []string{"_build", "Thumbs.db", ".DS_Store", "README.md"}
	}

	if cfg.HTML.BaseURL == "" {
		cfg.HTML.BaseURL = "/"
	}
	if cfg.HTML.LinkSuffix == "" {
		cfg.HTML.LinkSuffix = ".html"
	}

	if cfg.SourceLink.RootStrategy == "" {
		cfg.SourceLink.RootStrategy = RootStrategyGit
	}
	if cfg.SourceLink.ModuleRoot == "" {
		cfg.SourceLink.ModuleRoot = "."
	}

	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	if cfg.Version.EnvVar == "" {
		cfg.Version.EnvVar = DefaultVersionEnvVar
	}
}
