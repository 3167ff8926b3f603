package forge

import (
	"fmt"
	"net/url"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/config"
)

// RepoInfo is what can be inferred about a forge from a repository URL.
type RepoInfo struct {
	ForgeType config.ForgeType
	BaseURL   string
	FullName  string
	Found     bool
}

// ParseRepoURL infers forge type, web base URL and "owner/repo" from an
// HTTPS or scp-style clone URL. Local paths are not forges.
func ParseRepoURL(repoURL string) RepoInfo {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" || isLocalPath(repoURL) {
		return RepoInfo{}
	}

	u, err := url.Parse(normalizeSSHURL(repoURL))
	if err != nil || u.Host == "" {
		return RepoInfo{}
	}

	fullName := strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
	if fullName == "" {
		return RepoInfo{}
	}

	scheme := u.Scheme
	if scheme == "" || scheme == "ssh" || scheme == "git" {
		scheme = "https"
	}

	return RepoInfo{
		ForgeType: detectForgeTypeFromHost(u.Host),
		BaseURL:   fmt.Sprintf("%s://%s", scheme, u.Hostname()),
		FullName:  fullName,
		Found:     true,
	}
}

func detectForgeTypeFromHost(host string) config.ForgeType {
	switch {
	case strings.Contains(host, "github."):
		return config.ForgeGitHub
	case strings.Contains(host, "gitlab."):
		return config.ForgeGitLab
	default:
		// Unknown self-hosted instances are assumed to be Forgejo/Gitea.
		return config.ForgeForgejo
	}
}

// normalizeSSHURL converts git@host:owner/repo into https://host/owner/repo.
func normalizeSSHURL(repoURL string) string {
	if !strings.HasPrefix(repoURL, "git@") {
		return repoURL
	}
	parts := strings.SplitN(strings.TrimPrefix(repoURL, "git@"), ":", 2)
	if len(parts) == 2 {
		return "https://" + parts[0] + "/" + parts[1]
	}
	return repoURL
}

func isLocalPath(s string) bool {
	for _, prefix := range []string{"http://", "https://", "git@", "ssh://", "git://"} {
		if strings.HasPrefix(s, prefix) {
			return false
		}
	}
	return true
}
