package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/pypi"
	"github.com/ariel-frischer/changelog-checker/internal/report"
)

func renderHTMLFile(t *testing.T, reports []report.PackageReport) (string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.html")
	var status bytes.Buffer
	f := NewHTMLFormatter(Options{
		OutputFile: path,
		Status:     &status,
		Now:        func() time.Time { return time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC) },
	})
	require.NoError(t, f.DisplayResults(reports))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data), status.String()
}

func TestHTMLFormatter_DefaultOutputFile(t *testing.T) {
	assert.Equal(t, "changelog_report.html", NewHTMLFormatter(Options{}).OutputFile())
	assert.Equal(t, "custom_report.html", NewHTMLFormatter(Options{OutputFile: "custom_report.html"}).OutputFile())
}

func TestHTMLFormatter_Empty(t *testing.T) {
	content, status := renderHTMLFile(t, nil)

	assert.True(t, strings.HasPrefix(content, "<!DOCTYPE html>"))
	assert.Contains(t, content, "Dependency Update Report")
	assert.Contains(t, content, "Generated on 2024-03-01 09:30:00")
	assert.Contains(t, content, "No dependency changes found")
	assert.Contains(t, status, "report.html")
}

func TestHTMLFormatter_Sections(t *testing.T) {
	tests := map[string]struct {
		report   report.PackageReport
		contains []string
	}{
		"updated": {
			report: report.PackageReport{
				Change:  deps.DependencyChange{Name: "requests", ChangeType: deps.Updated, OldVersion: "2.28.0", NewVersion: "2.29.0"},
				Info:    &pypi.PackageInfo{Name: "requests", GitHubURL: "https://github.com/user/requests"},
				Entries: []changelog.Entry{{Version: "2.29.0", Content: "- Fixed bug\n- Added feature"}},
			},
			contains: []string{"Updated Packages", "requests", "2.28.0 → 2.29.0", "https://github.com/user/requests", "Fixed bug", "Added feature"},
		},
		"added": {
			report: report.PackageReport{
				Change: deps.DependencyChange{Name: "new-package", ChangeType: deps.Added, NewVersion: "1.0.0"},
				Info:   &pypi.PackageInfo{Name: "new-package", GitHubURL: "https://github.com/user/new-package"},
			},
			contains: []string{"Added Packages", "new-package", "1.0.0"},
		},
		"removed": {
			report: report.PackageReport{
				Change: deps.DependencyChange{Name: "old-package", ChangeType: deps.Removed, OldVersion: "1.5.0"},
				Info:   &pypi.PackageInfo{Name: "old-package", GitHubURL: "https://github.com/user/old-package"},
			},
			contains: []string{"Removed Packages", "old-package", "1.5.0"},
		},
		"missing changelog": {
			report: report.PackageReport{
				Change: deps.DependencyChange{Name: "no-changelog", ChangeType: deps.Updated, OldVersion: "1.0.0", NewVersion: "1.1.0"},
				Info:   &pypi.PackageInfo{Name: "no-changelog", GitHubURL: "https://github.com/user/no-changelog"},
			},
			contains: []string{"Missing Changelogs", "no-changelog", "Changelog not found in repository"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			content, _ := renderHTMLFile(t, []report.PackageReport{tt.report})
			for _, want := range tt.contains {
				assert.Contains(t, content, want)
			}
		})
	}
}

func TestHTMLFormatter_EscapesPackageNames(t *testing.T) {
	name := "<script>alert('xss')</script>"
	content, _ := renderHTMLFile(t, []report.PackageReport{{
		Change: deps.DependencyChange{Name: name, ChangeType: deps.Updated, OldVersion: "1.0.0", NewVersion: "2.0.0"},
		Info:   &pypi.PackageInfo{Name: name},
	}})

	assert.Contains(t, content, "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;")
	assert.NotContains(t, content, name)
}

func TestHTMLFormatter_StatusMessages(t *testing.T) {
	var status bytes.Buffer
	f := NewHTMLFormatter(Options{Status: &status})
	f.DisplayError("Test error message")
	f.DisplayProgress("Processing...")

	assert.Contains(t, status.String(), "Error: Test error message")
	assert.Contains(t, status.String(), "Processing...")
}

func TestContentHTML(t *testing.T) {
	tests := map[string]struct {
		content     string
		contains    []string
		notContains []string
	}{
		"empty": {
			content:  "",
			contains: []string{"No changelog content found"},
		},
		"whitespace": {
			content:  "   \n  \n  ",
			contains: []string{"No changelog content found"},
		},
		"plain text": {
			content:  "Header\nList item 1\nList item 2\nRegular text",
			contains: []string{"Header", "List item 1", "List item 2", "Regular text"},
		},
		"markdown": {
			content:  "# Header\n- List item",
			contains: []string{"<h1>Header</h1>", "<li>List item</li>"},
		},
		"markdown link": {
			content:  "# Header\nCheck out [this link](https://example.com) for more info.",
			contains: []string{`<a href="https://example.com" target="_blank">this link</a>`},
		},
		"markdown raw html omitted": {
			content:     "# Header\n\n<script>alert(1)</script>\n",
			notContains: []string{"<script>"},
		},
		"rst": {
			content:  "\nHeader\n======\n\n- List item\n",
			contains: []string{"<h3>Header</h3>", "<li>List item</li>"},
		},
		"rst link": {
			content:  "\nHeader\n======\n\nCheck out `this link <https://example.com>`__ for more info.\n",
			contains: []string{`<a href="https://example.com" target="_blank">this link</a>`},
		},
		"rst escapes text": {
			content:     "Fixes\n=====\n\n- Handle <b>tags</b> and ``code``\n",
			contains:    []string{"&lt;b&gt;tags&lt;/b&gt;", "<code>code</code>"},
			notContains: []string{"<b>"},
		},
		"rst directive dropped": {
			content:     "Notes\n=====\n\n.. note::\n   hidden body\n\nVisible text\n",
			contains:    []string{"Visible text"},
			notContains: []string{"hidden body"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := string(ContentHTML(tt.content))
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, got, unwanted)
			}
		})
	}
}

func TestAddTargetBlank(t *testing.T) {
	assert.Equal(t,
		`<a href="https://example.com" target="_blank">Link</a>`,
		AddTargetBlank(`<a href="https://example.com">Link</a>`))

	withTarget := AddTargetBlank(`<a href="https://example.com" target="_self">Link</a>`)
	assert.Contains(t, withTarget, `target="_self"`)
	assert.Equal(t, 1, strings.Count(withTarget, "target="))

	multiple := AddTargetBlank(`<a href="https://example.com">Link1</a> and <a href="https://test.com">Link2</a>`)
	assert.Equal(t, 2, strings.Count(multiple, `target="_blank"`))
}

func TestBasicHTML_FallbackStructure(t *testing.T) {
	got := basicHTML("# Header\n- List item")
	assert.Contains(t, got, "<h1>Header</h1>")
	assert.Contains(t, got, "<li>List item</li>")
}
