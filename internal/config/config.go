package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Config represents the site configuration.
type Config struct {
	Project        ProjectConfig    `yaml:"project"`
	Source         SourceConfig     `yaml:"source"`
	HTML           HTMLConfig       `yaml:"html"`
	Theme          ThemeConfig      `yaml:"theme"`
	Extensions     []string         `yaml:"extensions,omitempty"`
	MystExtensions []string         `yaml:"myst_extensions,omitempty"`
	OpenGraph      OpenGraphConfig  `yaml:"opengraph"`
	SourceLink     SourceLinkConfig `yaml:"source_link"`
	Cache          CacheConfig      `yaml:"cache"`
	Logging        LoggingConfig    `yaml:"logging"`
	Version        VersionConfig    `yaml:"version"`
}

// ProjectConfig holds site metadata.
type ProjectConfig struct {
	Name      string `yaml:"name"`
	Author    string `yaml:"author,omitempty"`
	Copyright string `yaml:"copyright,omitempty"`
}

// SourceConfig describes where source documents live.
type SourceConfig struct {
	Dir             string   `yaml:"dir"`
	Suffixes        []string `yaml:"suffixes,omitempty"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
	TemplatesPath   []string `yaml:"templates_path,omitempty"`
}

// HTMLConfig holds HTML output options.
type HTMLConfig struct {
	BaseURL       string              `yaml:"base_url,omitempty"`
	LinkSuffix    string              `yaml:"link_suffix,omitempty"`
	StaticPath    []string            `yaml:"static_path,omitempty"`
	CSSFiles      []string            `yaml:"css_files,omitempty"`
	JSFiles       []string            `yaml:"js_files,omitempty"`
	Favicon       string              `yaml:"favicon,omitempty"`
	PygmentsStyle string              `yaml:"pygments_style,omitempty"`
	Sidebars      map[string][]string `yaml:"sidebars,omitempty"` // glob pattern -> sidebar templates
}

// ThemeConfig holds theme options exposed to templates.
type ThemeConfig struct {
	Name          string    `yaml:"name,omitempty"`
	ShowPrevNext  bool      `yaml:"show_prev_next"`
	ShowScrollTop bool      `yaml:"show_scrolltop"`
	ExternalLinks bool      `yaml:"external_links"`
	LogoLight     string    `yaml:"logo_light,omitempty"`
	LogoDark      string    `yaml:"logo_dark,omitempty"`
	MainNavLinks  []NavLink `yaml:"main_nav_links,omitempty"`
}

// NavLink is a top navigation link. A list keeps the configured order.
type NavLink struct {
	Title string `yaml:"title"`
	URL   string `yaml:"url"`
}

// OpenGraphConfig holds social card metadata.
type OpenGraphConfig struct {
	SiteName string `yaml:"site_name,omitempty"`
	SiteURL  string `yaml:"site_url,omitempty"`
	Image    string `yaml:"image,omitempty"`
}

// SourceLinkConfig controls "view source" link generation.
type SourceLinkConfig struct {
	// BaseURL, when set, is used verbatim as the URL prefix.
	BaseURL string `yaml:"base_url,omitempty"`
	// RepoURL, Forge, Branch and PathPrefix compose a blob URL when BaseURL is empty.
	RepoURL    string `yaml:"repo_url,omitempty"`
	Forge      string `yaml:"forge,omitempty"`
	Branch     string `yaml:"branch,omitempty"`
	PathPrefix string `yaml:"path_prefix,omitempty"`

	RootStrategy RootStrategy `yaml:"root_strategy,omitempty"`
	RootMarker   string       `yaml:"root_marker,omitempty"`
	// ModuleRoot is the Go module whose packages back the symbol registry.
	ModuleRoot string `yaml:"module_root,omitempty"`
}

// CacheConfig controls the persistent doctree cache. An empty Path disables it.
type CacheConfig struct {
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level LogLevel `yaml:"level,omitempty"`
}

// VersionConfig names the environment variable carrying the docs version.
type VersionConfig struct {
	EnvVar string `yaml:"env_var,omitempty"`
}

// Load reads, expands, defaults and validates the configuration at configPath.
func Load(configPath string) (*Config, error) {
	loadEnvFile()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").
				WithContext("path", configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().WithContext("path", configPath).Build()
	}
	return Parse(data)
}

// Parse decodes configuration YAML, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadEnvFile loads the first of .env/.env.local that exists. Existing
// process variables are never overridden.
func loadEnvFile() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			slog.Warn("Failed to load env file", "path", envPath, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "path", envPath)
		return
	}
}
