package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
	"github.com/ariel-frischer/changelog-checker/internal/output"
)

const extractUsage = "changelog-checker extract <file> <old-version> <new-version>"

func newExtractCmd(root *rootOptions) *cobra.Command {
	var inclusive bool

	cmd := &cobra.Command{
		Use:   "extract <file> <old-version> <new-version>",
		Short: "Extract release notes between two versions from a local changelog",
		Long: `Extract release notes between two versions from a local changelog file.

Markdown, reStructuredText, Sphinx :release: directives and bullet release
formats are recognized. Entries are printed in document order as Markdown,
or as terminal text with --plain. The old version's own notes are skipped
unless --inclusive is set. Use "-" to read the changelog from stdin.`,
		Example: `  changelog-checker extract CHANGELOG.md 2.28.0 2.31.0
  changelog-checker extract docs/changes.rst v1.2 v1.4 --inclusive
  curl -s https://example.com/HISTORY.rst | changelog-checker extract - 3.0 3.2 --plain`,
		GroupID: GroupCheck,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(3)(cmd, args); err != nil {
				return clierrors.NewArgumentErrorWithUsage(err.Error(), extractUsage)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args[0], args[1], args[2], inclusive, root.plain)
		},
	}

	cmd.Flags().BoolVar(&inclusive, "inclusive", false, "Include the old version's own entry")
	return cmd
}

func runExtract(cmd *cobra.Command, path, oldVersion, newVersion string, inclusive, plain bool) error {
	content, err := readChangelog(cmd, path)
	if err != nil {
		return err
	}

	entries := changelog.Extractor{IncludeOld: inclusive}.Extract(content, oldVersion, newVersion)
	if len(entries) == 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "No changelog entries found between %s and %s.\n", oldVersion, newVersion)
		return nil
	}

	out := cmd.OutOrStdout()
	if plain {
		return changelog.FormatTerminal(entries, out, changelog.FormatOptions{
			Plain:    true,
			MaxWidth: output.TerminalWidth(out),
		})
	}
	return changelog.RenderMarkdown(entries, out)
}

func readChangelog(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", clierrors.ChangelogFileNotFound(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading changelog: %w", err)
	}
	return string(data), nil
}
