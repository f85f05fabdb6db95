package fetch

import (
	"archive/tar"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-checker/internal/httpx"
)

type tarEntry struct {
	name string
	body string
	dir  bool
}

func buildArchive(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.body))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func archiveServer(t *testing.T, archives map[string][]byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := archives[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/x-gzip")
		w.Write(body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestArchiveFetcher_Find(t *testing.T) {
	tests := map[string]struct {
		entries     []tarEntry
		wantPath    string
		wantContent string
	}{
		"root changelog": {
			entries: []tarEntry{
				{name: "repo-abc123/", dir: true},
				{name: "repo-abc123/README.md", body: "# readme"},
				{name: "repo-abc123/CHANGELOG.md", body: "## 1.0.0\n- first\n"},
			},
			wantPath:    "CHANGELOG.md",
			wantContent: "## 1.0.0\n- first\n",
		},
		"root beats docs": {
			entries: []tarEntry{
				{name: "repo-abc123/docs/changelog.md", body: "docs"},
				{name: "repo-abc123/CHANGES.rst", body: "root"},
			},
			wantPath:    "CHANGES.rst",
			wantContent: "root",
		},
		"docs only": {
			entries: []tarEntry{
				{name: "repo-abc123/src/main.py", body: "print()"},
				{name: "repo-abc123/docs/HISTORY.rst", body: "history"},
			},
			wantPath:    "docs/HISTORY.rst",
			wantContent: "history",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			server := archiveServer(t, map[string][]byte{
				"/user/repo/archive/HEAD.tar.gz": buildArchive(t, tt.entries),
			})
			f := NewArchiveFetcher(httpx.New(), WithBaseURL(server.URL))

			doc, err := f.Find(context.Background(), "user", "repo")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, doc.Path)
			assert.Equal(t, tt.wantContent, doc.Content)
			assert.Equal(t, server.URL+"/user/repo/blob/HEAD/"+tt.wantPath, doc.URL)
		})
	}
}

func TestArchiveFetcher_NotFound(t *testing.T) {
	server := archiveServer(t, map[string][]byte{
		"/user/nochangelog/archive/HEAD.tar.gz": buildArchive(t, []tarEntry{
			{name: "nochangelog-1/README.md", body: "readme"},
		}),
	})
	f := NewArchiveFetcher(httpx.New(), WithBaseURL(server.URL))

	tests := map[string]struct {
		owner, repo string
	}{
		"no candidate": {owner: "user", repo: "nochangelog"},
		"missing repo": {owner: "user", repo: "missing"},
		"empty owner":  {repo: "repo"},
		"empty repo":   {owner: "user"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.Find(context.Background(), tt.owner, tt.repo)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestArchiveFetcher_SkipsOversizedFiles(t *testing.T) {
	server := archiveServer(t, map[string][]byte{
		"/user/repo/archive/HEAD.tar.gz": buildArchive(t, []tarEntry{
			{name: "repo-1/CHANGELOG.md", body: "this file is far too large"},
			{name: "repo-1/docs/CHANGES.md", body: "small"},
		}),
	})
	f := NewArchiveFetcher(httpx.New(), WithBaseURL(server.URL), WithLimits(0, 10))

	doc, err := f.Find(context.Background(), "user", "repo")
	require.NoError(t, err)
	assert.Equal(t, "docs/CHANGES.md", doc.Path)
}

func TestArchiveFetcher_CorruptArchive(t *testing.T) {
	server := archiveServer(t, map[string][]byte{
		"/user/repo/archive/HEAD.tar.gz": []byte("not gzip"),
	})
	f := NewArchiveFetcher(httpx.New(), WithBaseURL(server.URL))

	_, err := f.Find(context.Background(), "user", "repo")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}
