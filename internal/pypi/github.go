package pypi

import (
	"net/url"
	"strings"
)

// reservedOwners are first path segments on github.com that are site pages
// rather than user or organisation accounts.
var reservedOwners = map[string]bool{
	"about":       true,
	"admin":       true,
	"api":         true,
	"apps":        true,
	"blog":        true,
	"collections": true,
	"contact":     true,
	"enterprise":  true,
	"explore":     true,
	"features":    true,
	"login":       true,
	"marketplace": true,
	"orgs":        true,
	"pricing":     true,
	"search":      true,
	"settings":    true,
	"site":        true,
	"sponsors":    true,
	"topics":      true,
	"trending":    true,
}

// CleanGitHubURL normalises a repository link to https://github.com/owner/repo.
// It accepts scheme-less, git+https and git@github.com:owner/repo forms and
// returns "" for anything that does not point at a repository.
func CleanGitHubURL(raw string) string {
	owner, repo, ok := ParseGitHubURL(raw)
	if !ok {
		return ""
	}
	return "https://github.com/" + owner + "/" + repo
}

// ParseGitHubURL extracts the owner and repository from a GitHub link.
func ParseGitHubURL(raw string) (owner, repo string, ok bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", "", false
	}
	s = strings.TrimPrefix(s, "git+")
	if rest, found := strings.CutPrefix(s, "git@github.com:"); found {
		s = "https://github.com/" + rest
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", "", false
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if host != "github.com" {
		return "", "", false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if repo == "" || reservedOwners[strings.ToLower(owner)] {
		return "", "", false
	}
	return owner, repo, true
}

// ProjectURL returns the public PyPI project page for name.
func ProjectURL(name string) string {
	return "https://pypi.org/project/" + name + "/"
}
