package config

import (
	"bytes"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Init writes an example configuration file to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	data, err := yaml.Marshal(ExampleConfig())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := atomic.WriteFile(configPath, bytes.NewReader(data)); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}
	return nil
}

// ExampleConfig returns the configuration written by Init.
func ExampleConfig() *Config {
	return &Config{
		Project: ProjectConfig{Name: "Example", Author: "Example"},
		Source: SourceConfig{
			Dir:             "docs",
			Suffixes:        []string{".md"},
			ExcludePatterns: []string{"_build", "Thumbs.db", ".DS_Store", "README.md"},
			TemplatesPath:   []string{"_templates"},
		},
		HTML: HTMLConfig{
			BaseURL:    "/",
			StaticPath: []string{"_static"},
			CSSFiles:   []string{"custom.css"},
			JSFiles:    []string{"custom.js"},
			Favicon:    "_static/favicon.ico",
			Sidebars: map[string][]string{
				"reference/**": {"sidebar_main_nav_links.html", "sidebars/reference.html"},
			},
		},
		Theme: ThemeConfig{
			ShowPrevNext:  true,
			ShowScrollTop: true,
			ExternalLinks: true,
			MainNavLinks: []NavLink{
				{Title: "Getting Started", URL: "/index"},
				{Title: "Reference", URL: "/reference/index"},
			},
		},
		Extensions:     []string{"myst", "linkcode", "opengraph"},
		MystExtensions: []string{"colon_fence", "deflist", "tasklist"},
		OpenGraph: OpenGraphConfig{
			SiteName: "Example Documentation",
			SiteURL:  "https://docs.example.com/",
		},
		SourceLink: SourceLinkConfig{
			RepoURL:      "https://github.com/example/project",
			RootStrategy: RootStrategyGit,
			ModuleRoot:   ".",
		},
		Logging: LoggingConfig{Level: LogLevelInfo},
		Version: VersionConfig{EnvVar: DefaultVersionEnvVar},
	}
}
