package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/storage/memory"
)

type cloneFunc func(ctx context.Context, url string, auth transport.AuthMethod) (*git.Repository, error)

// GitFetcher clones the default branch at depth 1 into memory and reads
// the changelog from the HEAD tree.
type GitFetcher struct {
	opts  options
	clone cloneFunc
}

// NewGitFetcher creates a GitFetcher.
func NewGitFetcher(opts ...Option) *GitFetcher {
	return &GitFetcher{opts: newOptions(opts), clone: shallowClone}
}

func shallowClone(ctx context.Context, url string, auth transport.AuthMethod) (*git.Repository, error) {
	return git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:          url,
		Auth:         auth,
		Depth:        1,
		SingleBranch: true,
		Tags:         git.NoTags,
	})
}

// Find implements Source.
func (g *GitFetcher) Find(ctx context.Context, owner, repo string) (Document, error) {
	if owner == "" || repo == "" {
		return Document{}, ErrNotFound
	}

	cloneURL := fmt.Sprintf("%s/%s/%s.git", g.opts.baseURL, owner, repo)
	g.opts.logger.Debug("cloning repository", "url", cloneURL, "token_present", g.opts.token != "")

	var auth transport.AuthMethod
	if g.opts.token != "" {
		auth = &http.BasicAuth{Username: "x-access-token", Password: g.opts.token}
	}

	r, err := g.clone(ctx, cloneURL, auth)
	if err != nil {
		if errors.Is(err, transport.ErrRepositoryNotFound) || errors.Is(err, transport.ErrAuthenticationRequired) {
			return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, repo)
		}
		return Document{}, fmt.Errorf("cloning %s: %w", cloneURL, err)
	}

	filePath, content, err := g.readBest(r)
	if err != nil {
		return Document{}, err
	}
	return Document{
		URL:     BlobURL(g.opts.baseURL, owner, repo, filePath),
		Path:    filePath,
		Content: content,
	}, nil
}

func (g *GitFetcher) readBest(r *git.Repository) (string, string, error) {
	ref, err := r.Head()
	if err != nil {
		return "", "", fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := r.CommitObject(ref.Hash())
	if err != nil {
		return "", "", fmt.Errorf("reading HEAD commit: %w", err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", "", fmt.Errorf("reading HEAD tree: %w", err)
	}

	var best candidate
	var bestFile *object.File
	err = tree.Files().ForEach(func(f *object.File) error {
		if f.Size > g.opts.maxFileBytes {
			return nil
		}
		if rank, ok := CandidateRank(f.Name); ok && best.better(rank) {
			best = candidate{rank: rank, path: f.Name, found: true}
			bestFile = f
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("walking tree: %w", err)
	}
	if !best.found {
		return "", "", ErrNotFound
	}

	content, err := bestFile.Contents()
	if err != nil {
		return "", "", fmt.Errorf("reading %s: %w", best.path, err)
	}
	return best.path, content, nil
}
