package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-checker/internal/checker"
	"github.com/ariel-frischer/changelog-checker/internal/config"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
	"github.com/ariel-frischer/changelog-checker/internal/fetch"
	"github.com/ariel-frischer/changelog-checker/internal/httpx"
	"github.com/ariel-frischer/changelog-checker/internal/logging"
	"github.com/ariel-frischer/changelog-checker/internal/output"
	"github.com/ariel-frischer/changelog-checker/internal/pypi"
)

func runCheck(cmd *cobra.Command, opts *rootOptions) error {
	overrides, err := checkOverrides(cmd, opts)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, opts, overrides)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr(), cfg)

	parser, err := deps.Lookup(cfg.Parser)
	if err != nil {
		return clierrors.UnknownParser(cfg.Parser, deps.Names())
	}

	input, err := readInput(cmd, opts.inputFile)
	if err != nil {
		return err
	}

	formatter, err := output.New(output.Format(cfg.OutputFormat), output.Options{
		Out:        cmd.OutOrStdout(),
		Status:     cmd.ErrOrStderr(),
		OutputFile: cfg.OutputFile,
		Plain:      cfg.Plain,
	})
	if err != nil {
		return clierrors.UnknownOutputFormat(cfg.OutputFormat, formatNames())
	}

	ctx := cmd.Context()
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
	}

	c := newChecker(cfg, parser, logger, formatter)
	formatter.DisplayProgress(fmt.Sprintf("Checking dependencies from %s output...", parser.Name()))

	reports, err := c.Check(ctx, input)
	switch {
	case err == nil:
	case errors.Is(err, checker.ErrInvalidInput):
		return clierrors.InvalidParserOutput(parser.Name(), err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewExitError(ExitTimeout, clierrors.CheckTimedOut(opts.timeout.String()))
	default:
		return clierrors.CheckFailed(err)
	}

	if err := formatter.DisplayResults(reports); err != nil {
		return clierrors.CheckFailed(err)
	}
	return nil
}

// checkOverrides turns explicitly set flags into config overrides. Flag
// values for enumerations are checked here so their errors name the flag.
func checkOverrides(cmd *cobra.Command, opts *rootOptions) (map[string]any, error) {
	overrides, err := parseSets(opts.sets)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("parser") {
		p, err := deps.Lookup(opts.parser)
		if err != nil {
			return nil, clierrors.UnknownParser(opts.parser, deps.Names())
		}
		overrides["parser"] = p.Name()
	}
	if flags.Changed("output-format") {
		f, err := output.ParseFormat(opts.outputFormat)
		if err != nil {
			return nil, clierrors.UnknownOutputFormat(opts.outputFormat, formatNames())
		}
		overrides["output_format"] = string(f)
	}
	if flags.Changed("output-file") {
		overrides["output_file"] = opts.outputFile
	}
	if flags.Changed("max-parallel") {
		overrides["max_parallel"] = opts.maxParallel
	}
	if flags.Changed("fetch-method") {
		overrides["fetch_method"] = strings.ToLower(opts.fetchMethod)
	}
	addLoggingOverrides(opts, overrides)
	return overrides, nil
}

// addLoggingOverrides applies the persistent flags shared by every command.
func addLoggingOverrides(opts *rootOptions, overrides map[string]any) {
	if opts.plain {
		overrides["plain"] = true
	}
	switch {
	case opts.debug:
		overrides["log_level"] = "debug"
	case opts.verbose:
		overrides["log_level"] = "info"
	}
}

// parseSets parses repeated --set key=value flags against the key schema.
func parseSets(sets []string) (map[string]any, error) {
	overrides := make(map[string]any, len(sets))
	for _, set := range sets {
		key, value, ok := strings.Cut(set, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, clierrors.NewArgumentErrorWithUsage(
				fmt.Sprintf("invalid --set value: %q", set),
				"changelog-checker --set key=value",
				"List valid keys with: changelog-checker config keys",
			)
		}
		key = strings.TrimSpace(key)
		parsed, err := config.ValidateValue(key, value)
		if err != nil {
			return nil, clierrors.NewArgumentError(
				fmt.Sprintf("invalid --set %s: %v", key, err),
				"List valid keys with: changelog-checker config keys",
			)
		}
		overrides[key] = parsed.Parsed
	}
	return overrides, nil
}

func loadConfig(cmd *cobra.Command, opts *rootOptions, overrides map[string]any) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: opts.configPath,
		Overrides:         overrides,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Configuration) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logging.LevelWarn
	}
	return logging.New(logging.Config{
		Level:   level,
		Output:  w,
		Service: "changelog-checker",
	})
}

// readInput returns the dependency tool output from path, or from stdin when
// path is empty.
func readInput(cmd *cobra.Command, path string) (string, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			return "", clierrors.InputFileNotFound(path)
		}
	} else {
		data, err = io.ReadAll(cmd.InOrStdin())
	}
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}

	input := string(data)
	if strings.TrimSpace(input) == "" {
		return "", clierrors.EmptyInput()
	}
	return input, nil
}

// newHTTPClient builds the shared outbound client for cfg.
func newHTTPClient(cfg *config.Configuration, logger *slog.Logger) *httpx.Client {
	client := httpx.New(
		httpx.WithTimeout(cfg.HTTPTimeout),
		httpx.WithRateLimit(cfg.RequestsPerSecond),
		httpx.WithGitHubToken(cfg.GitHubToken),
		httpx.WithGitHubHosts(hostOf(cfg.GitHubAPIURL), hostOf(cfg.GitHubURL)),
	)
	logger.Debug("configured http client",
		"user_agent", client.UserAgent(),
		"token_present", cfg.GitHubToken != "",
		"fetch_method", cfg.FetchMethod)
	return client
}

// newChecker wires the HTTP client, resolver and fetch source for cfg.
func newChecker(cfg *config.Configuration, parser deps.Parser, logger *slog.Logger, formatter output.Formatter) *checker.Checker {
	client := newHTTPClient(cfg, logger)

	finderOpts := []pypi.Option{
		pypi.WithBaseURL(cfg.PyPIURL),
		pypi.WithLogger(logger.With("component", "pypi")),
	}
	if cfg.SearchFallback {
		finderOpts = append(finderOpts, pypi.WithSearcher(
			pypi.NewGitHubSearcher(client, cfg.GitHubAPIURL, logger.With("component", "search"))))
	}
	finder := pypi.NewFinder(client, finderOpts...)

	fetchOpts := []fetch.Option{
		fetch.WithBaseURL(cfg.GitHubURL),
		fetch.WithLogger(logger.With("component", "fetch")),
	}
	var source fetch.Source
	if cfg.FetchMethod == "git" {
		source = fetch.NewGitFetcher(append(fetchOpts, fetch.WithToken(cfg.GitHubToken))...)
	} else {
		source = fetch.NewArchiveFetcher(client, fetchOpts...)
	}

	return checker.New(parser, finder, fetch.Dedupe(source),
		checker.WithMaxParallel(cfg.MaxParallel),
		checker.WithLogger(logger),
		checker.WithProgress(func(done, total int, name string) {
			formatter.DisplayProgress(fmt.Sprintf("Checked %s (%d/%d)", name, done, total))
		}),
	)
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

func formatNames() []string {
	names := make([]string, len(output.Formats))
	for i, f := range output.Formats {
		names[i] = string(f)
	}
	return names
}
