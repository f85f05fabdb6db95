// Package output renders check results for people: coloured terminal
// panels, a standalone HTML report, Markdown, or JSON for tooling.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/ariel-frischer/changelog-checker/internal/report"
)

// Format names an output format.
type Format string

const (
	FormatTerminal Format = "terminal"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatTerminal, FormatHTML, FormatMarkdown, FormatJSON}

// ParseFormat validates a format name. "rich" is accepted for terminal and
// "md" for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "terminal", "rich":
		return FormatTerminal, nil
	case "html":
		return FormatHTML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: terminal, html, markdown, json)", s)
	}
}

// Formatter presents results and status messages.
type Formatter interface {
	DisplayResults(reports []report.PackageReport) error
	DisplayError(msg string)
	DisplayProgress(msg string)
}

// DefaultHTMLFile is written when the HTML format has no output file.
const DefaultHTMLFile = "changelog_report.html"

// Options configures a formatter.
type Options struct {
	// Out receives results. Default: os.Stdout.
	Out io.Writer
	// Status receives progress and error messages. Default: os.Stderr.
	Status io.Writer
	// OutputFile, when set, receives results instead of Out.
	OutputFile string
	// Plain disables colours and the spinner.
	Plain bool
	// Width overrides the detected terminal width.
	Width int
	// Now stamps generated reports. Default: time.Now.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Status == nil {
		o.Status = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New creates the formatter for format.
func New(format Format, opts Options) (Formatter, error) {
	opts = opts.withDefaults()
	switch format {
	case FormatTerminal, "":
		return NewTerminalFormatter(opts), nil
	case FormatHTML:
		return NewHTMLFormatter(opts), nil
	case FormatMarkdown:
		return NewMarkdownFormatter(opts), nil
	case FormatJSON:
		return NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// TerminalWidth returns the width of w when it is a terminal, defaulting to
// 80 if unavailable.
func TerminalWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeTo opens the destination for results. The returned close function
// is a no-op for Out.
func writeTo(opts Options) (io.Writer, func() error, error) {
	if opts.OutputFile == "" {
		return opts.Out, func() error { return nil }, nil
	}
	f, err := os.Create(opts.OutputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", opts.OutputFile, err)
	}
	return f, f.Close, nil
}

// statusPrinter implements the status half of Formatter for formats that
// have no live display.
type statusPrinter struct {
	w io.Writer
}

func (s statusPrinter) DisplayError(msg string) {
	fmt.Fprintf(s.w, "Error: %s\n", msg)
}

func (s statusPrinter) DisplayProgress(msg string) {
	fmt.Fprintln(s.w, msg)
}
