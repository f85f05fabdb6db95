package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/pypi"
)

func sampleReports() []PackageReport {
	return []PackageReport{
		{
			Change:  deps.DependencyChange{Name: "requests", ChangeType: deps.Updated, OldVersion: "2.28.0", NewVersion: "2.29.0"},
			Entries: []changelog.Entry{{Version: "2.29.0", Content: "- Fixed bug"}},
		},
		{Change: deps.DependencyChange{Name: "urllib3", ChangeType: deps.Updated, OldVersion: "1.0", NewVersion: "2.0"}},
		{Change: deps.DependencyChange{Name: "new-package", ChangeType: deps.Added, NewVersion: "1.0.0"}},
		{Change: deps.DependencyChange{Name: "old-package", ChangeType: deps.Removed, OldVersion: "0.5.0"}},
		{
			Change:       deps.DependencyChange{Name: "broken", ChangeType: deps.Updated, OldVersion: "1", NewVersion: "2"},
			ErrorMessage: "network unreachable",
		},
	}
}

func TestMissingChangelogs(t *testing.T) {
	missing := MissingChangelogs(sampleReports())
	require.Len(t, missing, 2)
	assert.Equal(t, "urllib3", missing[0].Change.Name)
	assert.Equal(t, "broken", missing[1].Change.Name)

	assert.Empty(t, MissingChangelogs(nil))
}

func TestPartition(t *testing.T) {
	g := Partition(sampleReports())
	assert.Len(t, g.Updated, 3)
	require.Len(t, g.Added, 1)
	require.Len(t, g.Removed, 1)
	assert.Equal(t, "new-package", g.Added[0].Change.Name)
	assert.Equal(t, "old-package", g.Removed[0].Change.Name)
	assert.Equal(t, "requests", g.Updated[0].Change.Name)
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleReports())
	assert.Equal(t, Summary{Total: 5, Updated: 3, Added: 1, Removed: 1, Missing: 2, Errors: 1, Changelog: 1}, s)
}

func TestPackageReport_URLs(t *testing.T) {
	tests := map[string]struct {
		info          *pypi.PackageInfo
		wantGitHub    string
		wantChangelog string
	}{
		"no info": {},
		"located changelog wins": {
			info:          &pypi.PackageInfo{GitHubURL: "https://github.com/psf/requests", ChangelogURL: "https://github.com/psf/requests/blob/HEAD/HISTORY.md", DeclaredChangelogURL: "https://example.com/changes"},
			wantGitHub:    "https://github.com/psf/requests",
			wantChangelog: "https://github.com/psf/requests/blob/HEAD/HISTORY.md",
		},
		"declared fallback": {
			info:          &pypi.PackageInfo{DeclaredChangelogURL: "https://example.com/changes"},
			wantChangelog: "https://example.com/changes",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := PackageReport{Info: tt.info}
			assert.Equal(t, tt.wantGitHub, r.GitHubURL())
			assert.Equal(t, tt.wantChangelog, r.ChangelogURL())
		})
	}
}

func TestNewDocument(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	doc := NewDocument(nil, now)

	_, err := uuid.Parse(doc.ID)
	require.NoError(t, err)
	assert.Equal(t, now, doc.GeneratedAt)
	assert.NotNil(t, doc.Packages)
	assert.Zero(t, doc.Summary.Total)

	other := NewDocument(sampleReports(), now)
	assert.NotEqual(t, doc.ID, other.ID)
	assert.Equal(t, 5, other.Summary.Total)
}
