package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ariel-frischer/changelog-checker/internal/report"
)

// MarkdownFormatter writes the report as a Markdown document, suitable for
// pull request descriptions.
type MarkdownFormatter struct {
	statusPrinter
	opts Options
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts Options) *MarkdownFormatter {
	opts = opts.withDefaults()
	return &MarkdownFormatter{statusPrinter: statusPrinter{w: opts.Status}, opts: opts}
}

// DisplayResults implements Formatter.
func (m *MarkdownFormatter) DisplayResults(reports []report.PackageReport) error {
	var buf bytes.Buffer
	m.render(&buf, reports)

	w, closeFn, err := writeTo(m.opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		closeFn()
		return fmt.Errorf("writing markdown report: %w", err)
	}
	return closeFn()
}

func (m *MarkdownFormatter) render(w io.Writer, reports []report.PackageReport) {
	fmt.Fprintf(w, "# Dependency Update Report\n\nGenerated on %s\n\n", m.opts.Now().Format("2006-01-02 15:04:05"))
	if len(reports) == 0 {
		fmt.Fprintln(w, "No dependency changes found")
		return
	}

	g := report.Partition(reports)
	if len(g.Updated) > 0 {
		fmt.Fprint(w, "## Updated Packages\n\n")
		for _, r := range g.Updated {
			fmt.Fprintf(w, "### %s %s → %s\n\n", r.Change.Name, r.Change.OldVersion, r.Change.NewVersion)
			writeMarkdownLinks(w, r)
			switch {
			case r.ErrorMessage != "":
				fmt.Fprintf(w, "Error: %s\n\n", r.ErrorMessage)
			case !r.HasChangelog():
				fmt.Fprint(w, "_Changelog not found in repository_\n\n")
			default:
				for _, e := range r.Entries {
					header := "#### Version " + e.Version
					if e.Date != "" {
						header += " (" + e.Date + ")"
					}
					fmt.Fprintf(w, "%s\n\n", header)
					if body := strings.TrimSpace(e.Content); body != "" {
						fmt.Fprintf(w, "%s\n\n", body)
					}
				}
			}
		}
	}

	writeSimpleSection(w, "Added Packages", g.Added, func(r report.PackageReport) string {
		return r.Change.Name + " " + r.Change.NewVersion
	})
	writeSimpleSection(w, "Removed Packages", g.Removed, func(r report.PackageReport) string {
		return r.Change.Name + " " + r.Change.OldVersion
	})
	writeSimpleSection(w, "Missing Changelogs", report.MissingChangelogs(reports), func(r report.PackageReport) string {
		return r.Change.Name + " " + r.Change.OldVersion + " → " + r.Change.NewVersion
	})
}

func writeMarkdownLinks(w io.Writer, r report.PackageReport) {
	var links []string
	if u := r.GitHubURL(); u != "" {
		links = append(links, "[GitHub]("+u+")")
	}
	if u := r.ChangelogURL(); u != "" {
		links = append(links, "[Changelog]("+u+")")
	}
	if len(links) > 0 {
		fmt.Fprintf(w, "%s\n\n", strings.Join(links, " · "))
	}
}

func writeSimpleSection(w io.Writer, title string, reports []report.PackageReport, line func(report.PackageReport) string) {
	if len(reports) == 0 {
		return
	}
	fmt.Fprintf(w, "## %s\n\n", title)
	for _, r := range reports {
		fmt.Fprintf(w, "- %s\n", line(r))
	}
	fmt.Fprintln(w)
}
