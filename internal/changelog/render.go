package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes entries as a Keep a Changelog style fragment, one
// "## [version] - date" section per entry, in the order given.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderMarkdown(entries []Entry, w io.Writer) error {
	for i, e := range entries {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		if err := renderEntry(e, w); err != nil {
			return fmt.Errorf("rendering version %s: %w", e.Version, err)
		}
	}
	return nil
}

// RenderMarkdownString is a convenience function that renders to a string.
func RenderMarkdownString(entries []Entry) string {
	var b strings.Builder
	_ = RenderMarkdown(entries, &b)
	return b.String()
}

func renderEntry(e Entry, w io.Writer) error {
	if _, err := io.WriteString(w, formatEntryHeader(e)+"\n"); err != nil {
		return err
	}
	if e.Content == "" {
		return nil
	}
	_, err := io.WriteString(w, "\n"+e.Content+"\n")
	return err
}

func formatEntryHeader(e Entry) string {
	if e.Date != "" {
		return fmt.Sprintf("## [%s] - %s", e.Version, e.Date)
	}
	return fmt.Sprintf("## [%s]", e.Version)
}
