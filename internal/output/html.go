package output

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ariel-frischer/changelog-checker/internal/report"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTMLFormatter writes a standalone HTML report to a file.
type HTMLFormatter struct {
	statusPrinter
	opts Options
}

// NewHTMLFormatter creates an HTMLFormatter. Without an output file the
// report goes to DefaultHTMLFile.
func NewHTMLFormatter(opts Options) *HTMLFormatter {
	opts = opts.withDefaults()
	if opts.OutputFile == "" {
		opts.OutputFile = DefaultHTMLFile
	}
	return &HTMLFormatter{statusPrinter: statusPrinter{w: opts.Status}, opts: opts}
}

// OutputFile returns the report path.
func (h *HTMLFormatter) OutputFile() string {
	return h.opts.OutputFile
}

type htmlEntry struct {
	Version string
	Date    string
	Body    template.HTML
}

type htmlPackage struct {
	Name         string
	OldVersion   string
	NewVersion   string
	GitHubURL    string
	ChangelogURL string
	PyPIURL      string
	Error        string
	Entries      []htmlEntry
}

type htmlReport struct {
	GeneratedOn string
	Summary     report.Summary
	Updated     []htmlPackage
	Added       []htmlPackage
	Removed     []htmlPackage
	Missing     []htmlPackage
}

// DisplayResults renders the report and writes it to the output file.
func (h *HTMLFormatter) DisplayResults(reports []report.PackageReport) error {
	var buf bytes.Buffer
	if err := h.Render(&buf, reports); err != nil {
		return err
	}

	w, closeFn, err := writeTo(h.opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		closeFn()
		return fmt.Errorf("writing %s: %w", h.opts.OutputFile, err)
	}
	if err := closeFn(); err != nil {
		return err
	}

	h.DisplayProgress("HTML report written to " + h.opts.OutputFile)
	return nil
}

// Render executes the report template into buf.
func (h *HTMLFormatter) Render(buf *bytes.Buffer, reports []report.PackageReport) error {
	g := report.Partition(reports)
	data := htmlReport{
		GeneratedOn: h.opts.Now().Format("2006-01-02 15:04:05"),
		Summary:     report.Summarize(reports),
		Updated:     htmlPackages(g.Updated),
		Added:       htmlPackages(g.Added),
		Removed:     htmlPackages(g.Removed),
		Missing:     htmlPackages(report.MissingChangelogs(reports)),
	}
	if err := reportTemplate.Execute(buf, data); err != nil {
		return fmt.Errorf("rendering HTML report: %w", err)
	}
	return nil
}

func htmlPackages(reports []report.PackageReport) []htmlPackage {
	out := make([]htmlPackage, 0, len(reports))
	for _, r := range reports {
		p := htmlPackage{
			Name:         r.Change.Name,
			OldVersion:   r.Change.OldVersion,
			NewVersion:   r.Change.NewVersion,
			GitHubURL:    r.GitHubURL(),
			ChangelogURL: r.ChangelogURL(),
			Error:        r.ErrorMessage,
		}
		if r.Info != nil {
			p.PyPIURL = r.Info.PyPIURL
		}
		for _, e := range r.Entries {
			p.Entries = append(p.Entries, htmlEntry{Version: e.Version, Date: e.Date, Body: ContentHTML(e.Content)})
		}
		out = append(out, p)
	}
	return out
}

// ContentHTML converts a changelog body to safe HTML. Markdown goes through
// goldmark with raw HTML omitted, reStructuredText and plain text through a
// small structural converter. Links open in a new tab.
func ContentHTML(content string) template.HTML {
	if strings.TrimSpace(content) == "" {
		return `<p class="empty">No changelog content found</p>`
	}

	var out string
	switch DetectFormat(content) {
	case ContentMarkdown:
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			out = basicHTML(content)
		} else {
			out = buf.String()
		}
	case ContentRST:
		out = rstHTML(content)
	default:
		out = basicHTML(content)
	}

	return template.HTML(AddTargetBlank(out))
}

var anchorOpen = regexp.MustCompile(`<a\s([^>]*)>`)

// AddTargetBlank adds target="_blank" to anchors that have no target.
func AddTargetBlank(s string) string {
	return anchorOpen.ReplaceAllStringFunc(s, func(tag string) string {
		if strings.Contains(tag, "target=") {
			return tag
		}
		return strings.TrimSuffix(tag, ">") + ` target="_blank">`
	})
}

var atxLine = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)

// basicHTML handles "#" headings, bullet lists and paragraphs.
func basicHTML(content string) string {
	var b strings.Builder
	inList := false
	var para []string

	flushPara := func() {
		if len(para) > 0 {
			b.WriteString("<p>" + strings.Join(para, "<br>") + "</p>\n")
			para = nil
		}
	}
	closeList := func() {
		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			flushPara()
			closeList()
		case atxLine.MatchString(trimmed):
			flushPara()
			closeList()
			m := atxLine.FindStringSubmatch(trimmed)
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", len(m[1]), html.EscapeString(m[2]), len(m[1]))
		case isBulletLine(trimmed):
			flushPara()
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			b.WriteString("<li>" + html.EscapeString(strings.TrimSpace(trimmed[2:])) + "</li>\n")
		default:
			closeList()
			para = append(para, html.EscapeString(trimmed))
		}
	}
	flushPara()
	closeList()
	return b.String()
}

func isBulletLine(s string) bool {
	return len(s) >= 2 && strings.ContainsRune("-*+", rune(s[0])) && s[1] == ' '
}
