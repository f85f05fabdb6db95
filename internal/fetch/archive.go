package fetch

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/ariel-frischer/changelog-checker/internal/httpx"
)

// ArchiveFetcher downloads the default branch tarball and scans it for
// changelog candidates without writing to disk.
type ArchiveFetcher struct {
	client *httpx.Client
	opts   options
}

// NewArchiveFetcher creates an ArchiveFetcher.
func NewArchiveFetcher(client *httpx.Client, opts ...Option) *ArchiveFetcher {
	return &ArchiveFetcher{client: client, opts: newOptions(opts)}
}

// Find implements Source.
func (a *ArchiveFetcher) Find(ctx context.Context, owner, repo string) (Document, error) {
	if owner == "" || repo == "" {
		return Document{}, ErrNotFound
	}

	archiveURL := fmt.Sprintf("%s/%s/%s/archive/HEAD.tar.gz", a.opts.baseURL, owner, repo)
	a.opts.logger.Debug("downloading archive", "url", archiveURL)

	resp, err := a.client.Get(ctx, archiveURL, nil)
	if err != nil {
		if httpx.IsNotFound(err) {
			return Document{}, fmt.Errorf("%w: %s/%s", ErrNotFound, owner, repo)
		}
		return Document{}, fmt.Errorf("downloading archive: %w", err)
	}
	defer resp.Body.Close()

	gz, err := gzip.NewReader(io.LimitReader(resp.Body, a.opts.maxArchiveBytes))
	if err != nil {
		return Document{}, fmt.Errorf("opening archive: %w", err)
	}
	defer gz.Close()

	filePath, content, err := a.scan(tar.NewReader(gz))
	if err != nil {
		return Document{}, err
	}

	a.opts.logger.Debug("found changelog", "repository", owner+"/"+repo, "path", filePath)
	return Document{
		URL:     BlobURL(a.opts.baseURL, owner, repo, filePath),
		Path:    filePath,
		Content: content,
	}, nil
}

// scan walks the tar stream keeping the best candidate. A truncated archive
// still yields whatever was found before the cut.
func (a *ArchiveFetcher) scan(tr *tar.Reader) (string, string, error) {
	var best candidate
	var content []byte

	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if best.found {
				a.opts.logger.Warn("archive truncated", "error", err)
				break
			}
			return "", "", fmt.Errorf("reading archive: %w", err)
		}
		if hdr.Typeflag != tar.TypeReg || hdr.Size > a.opts.maxFileBytes {
			continue
		}

		// Entries are prefixed with a single "<repo>-<ref>/" directory.
		_, rel, ok := strings.Cut(hdr.Name, "/")
		if !ok {
			continue
		}
		rank, ok := CandidateRank(rel)
		if !ok || !best.better(rank) {
			continue
		}

		body, err := io.ReadAll(io.LimitReader(tr, a.opts.maxFileBytes))
		if err != nil {
			return "", "", fmt.Errorf("reading %s: %w", rel, err)
		}
		best = candidate{rank: rank, path: rel, found: true}
		content = body
		if rank == 0 {
			break
		}
	}

	if !best.found {
		return "", "", ErrNotFound
	}
	return best.path, strings.ToValidUTF8(string(content), "\uFFFD"), nil
}
