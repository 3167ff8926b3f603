package forge

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// GenerateBlobURL constructs a web UI URL prefix for browsing files of a
// repository at a branch. baseURL is the canonical web base (no trailing
// slash), fullName is "org/repo". Returns empty string if inputs are
// insufficient or the forge type is unsupported.
func GenerateBlobURL(forgeType config.ForgeType, baseURL, fullName, branch string) string {
	if forgeType == "" || baseURL == "" || fullName == "" || branch == "" {
		return ""
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	switch forgeType {
	case config.ForgeGitHub:
		return fmt.Sprintf("%s/%s/blob/%s", baseURL, fullName, branch)
	case config.ForgeGitLab:
		return fmt.Sprintf("%s/%s/-/blob/%s", baseURL, fullName, branch)
	case config.ForgeForgejo:
		return fmt.Sprintf("%s/%s/src/branch/%s", baseURL, fullName, branch)
	default:
		return ""
	}
}

// SourceBaseURL resolves the URL prefix that repository-relative paths are
// appended to. An explicit base_url wins; otherwise it is composed from
// repo_url, forge, branch and path_prefix. The empty string disables links.
func SourceBaseURL(cfg *config.Config) string {
	sl := cfg.SourceLink
	if sl.BaseURL != "" {
		return strings.TrimSuffix(sl.BaseURL, "/")
	}
	if sl.RepoURL == "" {
		return ""
	}

	repo := ParseRepoURL(sl.RepoURL)
	if !repo.Found {
		return ""
	}
	forgeType := config.NormalizeForgeType(sl.Forge)
	if forgeType == "" {
		forgeType = repo.ForgeType
	}

	base := GenerateBlobURL(forgeType, repo.BaseURL, repo.FullName, cfg.SourceBranch())
	if base == "" {
		return ""
	}
	if prefix := strings.Trim(sl.PathPrefix, "/"); prefix != "" {
		base += "/" + prefix
	}
	return base
}
