package pypi

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/httpx"
	"github.com/ariel-frischer/changelog-checker/internal/logging"
)

// DefaultGitHubAPIURL is the public GitHub REST API root.
const DefaultGitHubAPIURL = "https://api.github.com"

// maxNameDistance bounds how far a repository name may drift from the
// normalised package name and still be accepted.
const maxNameDistance = 3

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Name     string `json:"name"`
	HTMLURL  string `json:"html_url"`
	Stars    int    `json:"stargazers_count"`
	Archived bool   `json:"archived"`
}

// GitHubSearcher queries the GitHub repository search API.
type GitHubSearcher struct {
	client  *httpx.Client
	apiURL  string
	logger  *slog.Logger
	perPage int
}

// NewGitHubSearcher creates a searcher. An empty apiURL selects
// DefaultGitHubAPIURL.
func NewGitHubSearcher(client *httpx.Client, apiURL string, logger *slog.Logger) *GitHubSearcher {
	if apiURL == "" {
		apiURL = DefaultGitHubAPIURL
	}
	return &GitHubSearcher{
		client:  client,
		apiURL:  strings.TrimRight(apiURL, "/"),
		logger:  logging.OrNop(logger),
		perPage: 10,
	}
}

// Search returns the html URL of the repository whose name best matches
// name, or ErrPackageNotFound.
func (s *GitHubSearcher) Search(ctx context.Context, name string) (string, error) {
	q := url.Values{}
	q.Set("q", name+" in:name language:python")
	q.Set("per_page", fmt.Sprint(s.perPage))
	endpoint := s.apiURL + "/search/repositories?" + q.Encode()

	var resp searchResponse
	if err := s.client.GetJSON(ctx, endpoint, &resp); err != nil {
		return "", fmt.Errorf("searching repositories for %s: %w", name, err)
	}

	best, ok := bestMatch(name, resp.Items)
	if !ok {
		return "", ErrPackageNotFound
	}
	s.logger.Debug("search matched repository", "package", name, "repository", best.HTMLURL)
	return best.HTMLURL, nil
}

// bestMatch ranks candidates by fuzzy distance to the package name, then by
// stars. Archived repositories are skipped.
func bestMatch(name string, items []searchItem) (searchItem, bool) {
	live := slices.DeleteFunc(slices.Clone(items), func(it searchItem) bool {
		return it.Archived || CleanGitHubURL(it.HTMLURL) == ""
	})
	if len(live) == 0 {
		return searchItem{}, false
	}

	targets := make([]string, len(live))
	for i, it := range live {
		targets[i] = deps.NormalizeName(it.Name)
	}

	ranks := fuzzy.RankFindNormalizedFold(deps.NormalizeName(name), targets)
	var candidates []fuzzy.Rank
	for _, r := range ranks {
		if r.Distance <= maxNameDistance {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return searchItem{}, false
	}

	best := slices.MinFunc(candidates, func(a, b fuzzy.Rank) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(live[b.OriginalIndex].Stars, live[a.OriginalIndex].Stars)
	})
	return live[best.OriginalIndex], true
}
