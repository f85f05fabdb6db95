package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/report"
)

// TerminalFormatter prints coloured package panels to a terminal.
type TerminalFormatter struct {
	opts Options

	mu      sync.Mutex
	spinner *spinner.Spinner
}

// NewTerminalFormatter creates a TerminalFormatter.
func NewTerminalFormatter(opts Options) *TerminalFormatter {
	return &TerminalFormatter{opts: opts.withDefaults()}
}

func (t *TerminalFormatter) paint(attrs ...color.Attribute) func(a ...any) string {
	if t.opts.Plain {
		return fmt.Sprint
	}
	return color.New(attrs...).SprintFunc()
}

// DisplayProgress shows msg on a spinner when attached to a terminal, and
// as a plain line otherwise.
func (t *TerminalFormatter) DisplayProgress(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.opts.Plain || !IsTerminal(t.opts.Status) {
		fmt.Fprintln(t.opts.Status, msg)
		return
	}
	if t.spinner == nil {
		t.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(t.opts.Status))
		t.spinner.Start()
	}
	t.spinner.Suffix = " " + msg
}

// DisplayError prints msg in red.
func (t *TerminalFormatter) DisplayError(msg string) {
	t.stopSpinner()
	red := t.paint(color.FgRed, color.Bold)
	fmt.Fprintln(t.opts.Status, red("Error: "+msg))
}

func (t *TerminalFormatter) stopSpinner() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spinner != nil {
		t.spinner.Stop()
		t.spinner = nil
	}
}

// DisplayResults prints updated, added and removed packages in that order,
// followed by the list of packages whose changelog could not be found.
func (t *TerminalFormatter) DisplayResults(reports []report.PackageReport) error {
	t.stopSpinner()

	w, closeFn, err := writeTo(t.opts)
	if err != nil {
		return err
	}

	if err := t.render(w, reports); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

func (t *TerminalFormatter) render(w io.Writer, reports []report.PackageReport) error {
	if len(reports) == 0 {
		yellow := t.paint(color.FgYellow)
		_, err := fmt.Fprintln(w, yellow("No dependency changes found"))
		return err
	}

	bold := t.paint(color.Bold)
	s := report.Summarize(reports)
	fmt.Fprintf(w, "%s\n%d updated, %d added, %d removed\n\n", bold("Dependency Update Report"), s.Updated, s.Added, s.Removed)

	g := report.Partition(reports)
	for _, group := range [][]report.PackageReport{g.Updated, g.Added, g.Removed} {
		for _, r := range group {
			if err := t.renderPackage(w, r); err != nil {
				return fmt.Errorf("rendering %s: %w", r.Change.Name, err)
			}
			fmt.Fprintln(w)
		}
	}

	if missing := report.MissingChangelogs(reports); len(missing) > 0 {
		yellow := t.paint(color.FgYellow, color.Bold)
		names := make([]string, len(missing))
		for i, r := range missing {
			names[i] = r.Change.Name
		}
		fmt.Fprintf(w, "%s %s\n", yellow(fmt.Sprintf("Missing changelogs (%d):", len(missing))), strings.Join(names, ", "))
	}
	return nil
}

func (t *TerminalFormatter) renderPackage(w io.Writer, r report.PackageReport) error {
	width := t.opts.Width
	if width <= 0 {
		width = TerminalWidth(t.opts.Out)
	}

	fmt.Fprintln(w, t.title(r))
	if links := t.links(r); links != "" {
		fmt.Fprintln(w, links)
	}
	dim := t.paint(color.Faint)
	fmt.Fprintln(w, dim(strings.Repeat("─", min(width, 60))))

	green := t.paint(color.FgGreen)
	red := t.paint(color.FgRed)
	yellow := t.paint(color.FgYellow)

	switch {
	case r.Change.ChangeType == deps.Added:
		fmt.Fprintln(w, green("Package added to dependencies"))
	case r.Change.ChangeType == deps.Removed:
		fmt.Fprintln(w, red("Package removed from dependencies"))
	case r.ErrorMessage != "":
		fmt.Fprintln(w, red("Error: "+r.ErrorMessage))
	case !r.HasChangelog():
		fmt.Fprintln(w, yellow("Changelog not found in repository"))
	default:
		entries := make([]changelog.Entry, len(r.Entries))
		for i, e := range r.Entries {
			e.Content = terminalBody(e.Content)
			entries[i] = e
		}
		return changelog.FormatTerminal(entries, w, changelog.FormatOptions{Plain: t.opts.Plain, MaxWidth: width})
	}
	return nil
}

func (t *TerminalFormatter) title(r report.PackageReport) string {
	bold := t.paint(color.Bold)
	cyan := t.paint(color.FgCyan)
	c := r.Change
	switch c.ChangeType {
	case deps.Added:
		return fmt.Sprintf("%s %s", bold(c.Name), cyan(c.NewVersion))
	case deps.Removed:
		return fmt.Sprintf("%s %s", bold(c.Name), cyan(c.OldVersion))
	default:
		return fmt.Sprintf("%s %s", bold(c.Name), cyan(c.OldVersion+" → "+c.NewVersion))
	}
}

func (t *TerminalFormatter) links(r report.PackageReport) string {
	blue := t.paint(color.FgBlue, color.Underline)
	var parts []string
	if u := r.GitHubURL(); u != "" {
		parts = append(parts, "GitHub: "+blue(u))
	}
	if u := r.ChangelogURL(); u != "" {
		parts = append(parts, "Changelog: "+blue(u))
	}
	return strings.Join(parts, " | ")
}

// terminalBody turns reStructuredText section titles into "#" headings so
// the plain renderer emboldens them; underline rows are dropped.
func terminalBody(content string) string {
	if DetectFormat(content) != ContentRST {
		return content
	}
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if i+1 < len(lines) && trimmed != "" && isUnderline(strings.TrimSpace(lines[i+1]), trimmed) {
			out = append(out, "### "+trimmed)
			i++
			continue
		}
		out = append(out, lines[i])
	}
	return strings.Join(out, "\n")
}

func isUnderline(line, title string) bool {
	return rstUnderBar.MatchString(line) && len(line) >= len(title)-3
}
