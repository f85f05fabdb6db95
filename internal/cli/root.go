// Package cli implements the changelog-checker command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
	"github.com/ariel-frischer/changelog-checker/internal/output"
)

// Command group IDs.
const (
	GroupCheck  = "check"
	GroupConfig = "config"
)

// rootOptions holds the flags of the root (check) command.
type rootOptions struct {
	inputFile    string
	parser       string
	outputFormat string
	outputFile   string
	configPath   string
	maxParallel  int
	fetchMethod  string
	timeout      time.Duration
	sets         []string
	plain        bool
	verbose      bool
	debug        bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "changelog-checker",
		Short: "Show changelog excerpts for every dependency bump",
		Long: `Changelog Checker reads the output of a dependency update (uv sync,
uv lock or pip list --outdated), finds each changed package's repository and
changelog, and reports the release notes between the old and new versions.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHANGELOG_CHECKER_*)
  3. Project config (.changelog-checker.yml or --config)
  4. User config (~/.config/changelog-checker/config.yml)
  5. Built-in defaults`,
		Example: `  # Check a uv upgrade
  uv sync --upgrade 2>&1 | changelog-checker

  # Check pip's outdated list and write an HTML report
  pip list --outdated | changelog-checker --parser pip --output-format html

  # Read saved output and print Markdown
  changelog-checker -i uv-output.txt -f markdown -o CHANGES-REVIEW.md`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.plain {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), c.UseLine())
	})

	cmd.AddGroup(
		&cobra.Group{ID: GroupCheck, Title: "Check Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputFile, "input-file", "i", "", "Read dependency tool output from a file instead of stdin")
	flags.StringVarP(&opts.parser, "parser", "p", "", "Dependency tool that produced the input: uv | pip (default uv)")
	flags.StringVarP(&opts.outputFormat, "output-format", "f", "", "Report format: terminal | html | markdown | json (default terminal)")
	flags.StringVarP(&opts.outputFile, "output-file", "o", "", "Write the report to a file")
	flags.IntVar(&opts.maxParallel, "max-parallel", 0, "Packages researched concurrently (1-32, default 8)")
	flags.StringVar(&opts.fetchMethod, "fetch-method", "", "Repository fetch method: archive | git (default archive)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "Abort the whole check after this long (e.g., 2m; 0 = no limit)")
	flags.StringArrayVar(&opts.sets, "set", nil, "Override a config key (key=value, repeatable)")

	persistent := cmd.PersistentFlags()
	persistent.StringVar(&opts.configPath, "config", "", "Path to a project config file (YAML or JSON)")
	persistent.BoolVar(&opts.plain, "plain", false, "Plain output without colors or spinners")
	persistent.BoolVarP(&opts.verbose, "verbose", "v", false, "Log progress details to stderr")
	persistent.BoolVar(&opts.debug, "debug", false, "Log request-level debug output to stderr")

	cmd.AddCommand(
		newExtractCmd(opts),
		newConfigCmd(opts),
		newDoctorCmd(opts),
		newVersionCmd(),
	)

	return cmd
}

// Execute runs the root command and returns the process exit code. An
// interrupt cancels in-flight requests.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return ExecuteContext(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// ExecuteContext runs the command tree with explicit arguments and streams.
func ExecuteContext(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err != nil {
		reportError(stderr, err)
	}
	return ExitCode(err)
}

// reportError prints err, using the structured format for CLIErrors. Colors
// are kept for terminals only.
func reportError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		if !output.IsTerminal(w) {
			fmt.Fprint(w, clierrors.FormatErrorPlain(cliErr))
			return
		}
		clierrors.FprintError(w, cliErr)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
