// Package report holds the per-package results produced by a dependency
// check and the groupings presentation layers need.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/pypi"
)

// PackageReport is the outcome for one changed dependency.
type PackageReport struct {
	Change  deps.DependencyChange `json:"change" yaml:"change"`
	Info    *pypi.PackageInfo     `json:"info,omitempty" yaml:"info,omitempty"`
	Entries []changelog.Entry     `json:"entries" yaml:"entries"`

	// ErrorMessage is set when researching the package failed. The rest of
	// the run is unaffected.
	ErrorMessage string `json:"error,omitempty" yaml:"error,omitempty"`
}

// HasChangelog reports whether any entries were extracted.
func (r PackageReport) HasChangelog() bool {
	return len(r.Entries) > 0
}

// GitHubURL returns the repository link, if known.
func (r PackageReport) GitHubURL() string {
	if r.Info == nil {
		return ""
	}
	return r.Info.GitHubURL
}

// ChangelogURL returns the changelog link, preferring the located document
// over the one declared in package metadata.
func (r PackageReport) ChangelogURL() string {
	if r.Info == nil {
		return ""
	}
	if r.Info.ChangelogURL != "" {
		return r.Info.ChangelogURL
	}
	return r.Info.DeclaredChangelogURL
}

// Groups splits reports by change type, preserving order within each group.
type Groups struct {
	Updated []PackageReport
	Added   []PackageReport
	Removed []PackageReport
}

// Partition groups reports by change type.
func Partition(reports []PackageReport) Groups {
	var g Groups
	for _, r := range reports {
		switch r.Change.ChangeType {
		case deps.Updated:
			g.Updated = append(g.Updated, r)
		case deps.Added:
			g.Added = append(g.Added, r)
		case deps.Removed:
			g.Removed = append(g.Removed, r)
		}
	}
	return g
}

// MissingChangelogs returns updated packages for which no entries were
// extracted.
func MissingChangelogs(reports []PackageReport) []PackageReport {
	var missing []PackageReport
	for _, r := range reports {
		if r.Change.ChangeType == deps.Updated && !r.HasChangelog() {
			missing = append(missing, r)
		}
	}
	return missing
}

// Summary counts reports by outcome.
type Summary struct {
	Total     int `json:"total" yaml:"total"`
	Updated   int `json:"updated" yaml:"updated"`
	Added     int `json:"added" yaml:"added"`
	Removed   int `json:"removed" yaml:"removed"`
	Missing   int `json:"missing_changelogs" yaml:"missing_changelogs"`
	Errors    int `json:"errors" yaml:"errors"`
	Changelog int `json:"with_changelog" yaml:"with_changelog"`
}

// Summarize computes a Summary.
func Summarize(reports []PackageReport) Summary {
	g := Partition(reports)
	s := Summary{
		Total:   len(reports),
		Updated: len(g.Updated),
		Added:   len(g.Added),
		Removed: len(g.Removed),
		Missing: len(MissingChangelogs(reports)),
	}
	for _, r := range reports {
		if r.ErrorMessage != "" {
			s.Errors++
		}
		if r.HasChangelog() {
			s.Changelog++
		}
	}
	return s
}

// Document is a complete, serialisable report.
type Document struct {
	ID          string          `json:"id" yaml:"id"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	Summary     Summary         `json:"summary" yaml:"summary"`
	Packages    []PackageReport `json:"packages" yaml:"packages"`
}

// NewDocument wraps reports with a fresh identifier and timestamp.
func NewDocument(reports []PackageReport, now time.Time) Document {
	if reports == nil {
		reports = []PackageReport{}
	}
	return Document{
		ID:          uuid.NewString(),
		GeneratedAt: now,
		Summary:     Summarize(reports),
		Packages:    reports,
	}
}
