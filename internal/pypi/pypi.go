// Package pypi resolves a Python package name to its PyPI page, its GitHub
// repository and any changelog link the project declares.
package pypi

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/ariel-frischer/changelog-checker/internal/httpx"
	"github.com/ariel-frischer/changelog-checker/internal/logging"
)

// DefaultBaseURL is the PyPI JSON API root.
const DefaultBaseURL = "https://pypi.org"

// ErrPackageNotFound is returned by a Searcher when no repository matches.
var ErrPackageNotFound = errors.New("package repository not found")

// PackageInfo describes where a package lives.
type PackageInfo struct {
	Name      string `json:"name" yaml:"name"`
	PyPIURL   string `json:"pypi_url" yaml:"pypi_url"`
	GitHubURL string `json:"github_url,omitempty" yaml:"github_url,omitempty"`

	// DeclaredChangelogURL is a changelog link taken from project_urls.
	DeclaredChangelogURL string `json:"declared_changelog_url,omitempty" yaml:"declared_changelog_url,omitempty"`

	// ChangelogURL and ChangelogFound are filled in once a changelog
	// document has been located in the repository.
	ChangelogURL   string `json:"changelog_url,omitempty" yaml:"changelog_url,omitempty"`
	ChangelogFound bool   `json:"changelog_found" yaml:"changelog_found"`
}

// Searcher finds a GitHub repository for a package when PyPI metadata has
// no usable link.
type Searcher interface {
	Search(ctx context.Context, name string) (string, error)
}

// Order in which project_urls keys are consulted for a repository link.
var repoKeys = []string{"source", "source code", "repository", "code", "github", "homepage"}

var changelogKeys = []string{"changelog", "changes", "release notes", "history", "changelog.md"}

type projectMetadata struct {
	Info struct {
		HomePage    string            `json:"home_page"`
		DownloadURL string            `json:"download_url"`
		ProjectURLs map[string]string `json:"project_urls"`
	} `json:"info"`
}

// Finder looks up package metadata.
type Finder struct {
	client   *httpx.Client
	baseURL  string
	searcher Searcher
	logger   *slog.Logger
}

// Option configures a Finder.
type Option func(*Finder)

// WithBaseURL points the Finder at a PyPI mirror or test server.
func WithBaseURL(base string) Option {
	return func(f *Finder) {
		if base != "" {
			f.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithSearcher enables a fallback search when metadata has no GitHub link.
func WithSearcher(s Searcher) Option {
	return func(f *Finder) {
		f.searcher = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(f *Finder) {
		f.logger = logging.OrNop(l)
	}
}

// NewFinder creates a Finder using client for all requests.
func NewFinder(client *httpx.Client, opts ...Option) *Finder {
	f := &Finder{
		client:  client,
		baseURL: DefaultBaseURL,
		logger:  logging.Nop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindPackageInfo never fails. Lookup problems are logged and produce an
// info with only Name and PyPIURL set, after which the search fallback
// still runs.
func (f *Finder) FindPackageInfo(ctx context.Context, name string) PackageInfo {
	info := PackageInfo{Name: name, PyPIURL: ProjectURL(name)}

	var meta projectMetadata
	apiURL := f.baseURL + "/pypi/" + url.PathEscape(name) + "/json"
	if err := f.client.GetJSON(ctx, apiURL, &meta); err != nil {
		f.logger.Warn("fetching package metadata", "package", name, "error", err)
	} else {
		info.GitHubURL = repositoryFromMetadata(meta)
		info.DeclaredChangelogURL = declaredChangelog(meta.Info.ProjectURLs)
	}

	if info.GitHubURL == "" && f.searcher != nil && ctx.Err() == nil {
		found, err := f.searcher.Search(ctx, name)
		switch {
		case err == nil:
			info.GitHubURL = CleanGitHubURL(found)
		case errors.Is(err, ErrPackageNotFound):
			f.logger.Debug("no repository found by search", "package", name)
		default:
			f.logger.Warn("searching for repository", "package", name, "error", err)
		}
	}

	f.logger.Debug("resolved package", "package", name, "github", info.GitHubURL)
	return info
}

func repositoryFromMetadata(meta projectMetadata) string {
	urls := lowerKeys(meta.Info.ProjectURLs)
	for _, key := range repoKeys {
		if u := CleanGitHubURL(urls[key]); u != "" {
			return u
		}
	}
	for _, raw := range sortedValues(urls) {
		if u := CleanGitHubURL(raw); u != "" {
			return u
		}
	}
	for _, raw := range []string{meta.Info.HomePage, meta.Info.DownloadURL} {
		if u := CleanGitHubURL(raw); u != "" {
			return u
		}
	}
	return ""
}

func declaredChangelog(projectURLs map[string]string) string {
	urls := lowerKeys(projectURLs)
	for _, key := range changelogKeys {
		if u := strings.TrimSpace(urls[key]); u != "" {
			return u
		}
	}
	return ""
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// sortedValues orders values by key so the fallback pass is deterministic.
func sortedValues(m map[string]string) []string {
	keys := slices.Sorted(maps.Keys(m))
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, m[k])
	}
	return values
}
