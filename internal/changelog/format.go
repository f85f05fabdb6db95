package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes entries to w as "Version X (date)" blocks followed
// by their indented bodies.
func FormatTerminal(entries []Entry, w io.Writer, opts FormatOptions) error {
	width := resolveWidth(opts.MaxWidth)

	for i, e := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := writeVersionHeader(e, w, opts); err != nil {
			return fmt.Errorf("formatting version %s: %w", e.Version, err)
		}
		if _, err := io.WriteString(w, FormatBody(e.Content, opts, width)+"\n"); err != nil {
			return fmt.Errorf("formatting version %s: %w", e.Version, err)
		}
	}

	return nil
}

func writeVersionHeader(e Entry, w io.Writer, opts FormatOptions) error {
	header := "Version " + e.Version
	if e.Date != "" {
		header += " (" + e.Date + ")"
	}

	if opts.Plain {
		_, err := fmt.Fprintln(w, header)
		return err
	}

	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	_, err := fmt.Fprintln(w, cyan(header))
	return err
}

// FormatBody renders an entry body as plain terminal text. Markdown
// headings are emboldened and every other line is indented by two spaces.
func FormatBody(content string, opts FormatOptions, width int) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	bold := color.New(color.Bold).SprintFunc()

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			out = append(out, "")
		case strings.HasPrefix(trimmed, "#"):
			if opts.Plain {
				out = append(out, trimmed)
			} else {
				out = append(out, bold(trimmed))
			}
		default:
			out = append(out, "  "+wrapText(trimmed, width-2, "    "))
		}
	}

	return strings.Join(out, "\n")
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}
