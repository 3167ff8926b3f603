package config

import (
	"os"
	"strings"
)

// DefaultBranch is used when neither config nor docs version selects one.
const DefaultBranch = "main"

// DocsVersion returns the docs version from the configured environment
// variable, or "latest" when it is unset.
func (c *Config) DocsVersion() string {
	if v := strings.TrimSpace(os.Getenv(c.Version.EnvVar)); v != "" {
		return v
	}
	return "latest"
}

// BranchForVersion maps a docs version onto a source branch: latest and
// stable track the default branch; other versions encode '/' as '-'.
func BranchForVersion(version string) string {
	switch version {
	case "", "latest", "stable":
		return DefaultBranch
	default:
		return strings.ReplaceAll(version, "-", "/")
	}
}

// SourceBranch is the branch source links point at. An explicit
// source_link.branch wins over the docs version.
func (c *Config) SourceBranch() string {
	if b := strings.TrimSpace(c.SourceLink.Branch); b != "" {
		return b
	}
	return BranchForVersion(c.DocsVersion())
}
