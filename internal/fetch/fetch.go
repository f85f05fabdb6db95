// Package fetch locates and downloads changelog documents from GitHub
// repositories.
//
// Two sources are available: ArchiveFetcher streams the repository tarball
// and GitFetcher performs a shallow in-memory clone. Both pick the best
// candidate according to CandidateRank.
package fetch

import (
	"context"
	"errors"
	"path"
	"slices"
	"strings"
)

// ErrNotFound is returned when a repository has no changelog candidate, or
// when the repository itself cannot be found.
var ErrNotFound = errors.New("changelog not found")

// DefaultGitHubURL is the web root used for archive downloads, clones and
// document links.
const DefaultGitHubURL = "https://github.com"

// Size limits applied while reading remote content.
const (
	DefaultMaxArchiveBytes = 200 << 20
	DefaultMaxFileBytes    = 5 << 20
)

// Document is a fetched changelog.
type Document struct {
	// URL is a browsable link to the file.
	URL string
	// Path is relative to the repository root.
	Path    string
	Content string
}

// Source finds the changelog of a repository.
type Source interface {
	Find(ctx context.Context, owner, repo string) (Document, error)
}

var candidateNames = []string{"changelog", "changes", "history", "news", "release_notes", "releases"}

var candidateExts = []string{".md", ".rst", ".txt", ""}

var candidateDirs = []string{"", "docs", "doc"}

// CandidateRank reports whether a repository-relative path is a changelog
// candidate and, if so, its rank. Lower ranks are preferred: root files beat
// docs/ which beats doc/, then names and extensions follow the order above.
// Matching is case-insensitive.
func CandidateRank(p string) (int, bool) {
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	dir, file := path.Split(p)
	dir = strings.TrimSuffix(strings.ToLower(dir), "/")
	file = strings.ToLower(file)

	dirIdx := slices.Index(candidateDirs, dir)
	if dirIdx < 0 {
		return 0, false
	}

	ext := path.Ext(file)
	base := strings.TrimSuffix(file, ext)
	extIdx := slices.Index(candidateExts, ext)
	if extIdx < 0 {
		return 0, false
	}
	nameIdx := slices.Index(candidateNames, strings.ReplaceAll(base, "-", "_"))
	if nameIdx < 0 {
		return 0, false
	}

	return dirIdx*100 + nameIdx*10 + extIdx, true
}

// BlobURL builds the browsable link for a file in the default branch. An
// empty base selects DefaultGitHubURL.
func BlobURL(base, owner, repo, filePath string) string {
	if base == "" {
		base = DefaultGitHubURL
	}
	return strings.TrimRight(base, "/") + "/" + owner + "/" + repo + "/blob/HEAD/" + filePath
}

// candidate tracks the best document seen while walking a tree.
type candidate struct {
	rank  int
	path  string
	found bool
}

func (c *candidate) better(rank int) bool {
	return !c.found || rank < c.rank
}
