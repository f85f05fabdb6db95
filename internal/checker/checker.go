// changelog-checker - Changelog excerpts for every dependency bump
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/changelog-checker

// Package checker assembles per-package reports from dependency tool output.
//
// A check validates and parses the input, then researches every changed
// package concurrently: resolve its repository, fetch the changelog and
// extract the entries between the old and new version. Reports come back in
// input order regardless of completion order.
package checker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ariel-frischer/changelog-checker/internal/changelog"
	"github.com/ariel-frischer/changelog-checker/internal/deps"
	"github.com/ariel-frischer/changelog-checker/internal/fetch"
	"github.com/ariel-frischer/changelog-checker/internal/logging"
	"github.com/ariel-frischer/changelog-checker/internal/pypi"
	"github.com/ariel-frischer/changelog-checker/internal/report"
)

// DefaultMaxParallel is the default number of packages researched at once.
const DefaultMaxParallel = 8

// ErrInvalidInput is returned when the parser does not recognise the input.
var ErrInvalidInput = errors.New("invalid input")

// Resolver looks up where a package lives.
type Resolver interface {
	FindPackageInfo(ctx context.Context, name string) pypi.PackageInfo
}

// ProgressFunc is called after each package completes. Calls are
// serialised.
type ProgressFunc func(done, total int, name string)

// Checker turns dependency diffs into reports.
type Checker struct {
	parser      deps.Parser
	resolver    Resolver
	source      fetch.Source
	extractor   changelog.Extractor
	maxParallel int
	logger      *slog.Logger
	progress    ProgressFunc
}

// Option configures a Checker.
type Option func(*Checker)

// WithMaxParallel sets how many packages are researched concurrently.
func WithMaxParallel(n int) Option {
	return func(c *Checker) {
		if n >= 1 {
			c.maxParallel = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logging.OrNop(l)
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(c *Checker) {
		c.progress = fn
	}
}

// WithExtractor overrides the extraction options.
func WithExtractor(x changelog.Extractor) Option {
	return func(c *Checker) {
		c.extractor = x
	}
}

// New creates a Checker.
func New(parser deps.Parser, resolver Resolver, source fetch.Source, opts ...Option) *Checker {
	c := &Checker{
		parser:      parser,
		resolver:    resolver,
		source:      source,
		maxParallel: DefaultMaxParallel,
		logger:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check researches every change in input. A failure researching one package
// is recorded on its report and does not stop the others; only invalid
// input and context cancellation fail the whole check.
func (c *Checker) Check(ctx context.Context, input string) ([]report.PackageReport, error) {
	if !c.parser.Validate(input) {
		return nil, fmt.Errorf("%w: output doesn't appear to be from %s", ErrInvalidInput, c.parser.Name())
	}
	changes, err := c.parser.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	logger := c.logger.With("run", uuid.NewString())
	logger.Info("checking dependencies", "parser", c.parser.Name(), "changes", len(changes), "max_parallel", c.maxParallel)

	reports := make([]report.PackageReport, len(changes))
	var mu sync.Mutex
	done := 0

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallel)

	for i, change := range changes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			reports[i] = c.research(ctx, logger, change)
			if err := ctx.Err(); err != nil {
				return err
			}

			if c.progress != nil {
				mu.Lock()
				done++
				c.progress(done, len(changes), change.Name)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (c *Checker) research(ctx context.Context, logger *slog.Logger, change deps.DependencyChange) report.PackageReport {
	r := report.PackageReport{Change: change, Entries: []changelog.Entry{}}
	logger = logger.With("package", change.Name)

	info := c.resolver.FindPackageInfo(ctx, change.Name)
	r.Info = &info

	if change.ChangeType != deps.Updated {
		return r
	}

	owner, repo, ok := pypi.ParseGitHubURL(info.GitHubURL)
	if !ok {
		logger.Debug("no repository for package")
		return r
	}

	doc, err := c.source.Find(ctx, owner, repo)
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		logger.Debug("no changelog in repository", "repository", owner+"/"+repo)
		return r
	case err != nil:
		logger.Warn("fetching changelog", "error", err)
		r.ErrorMessage = fmt.Sprintf("fetching changelog: %v", err)
		return r
	}

	info.ChangelogURL = doc.URL
	info.ChangelogFound = true
	r.Entries = c.extractor.Extract(doc.Content, change.OldVersion, change.NewVersion)
	logger.Debug("extracted changelog", "path", doc.Path, "entries", len(r.Entries))
	return r
}
