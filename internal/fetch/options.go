package fetch

import (
	"log/slog"
	"strings"

	"github.com/ariel-frischer/changelog-checker/internal/logging"
)

type options struct {
	baseURL         string
	token           string
	maxArchiveBytes int64
	maxFileBytes    int64
	logger          *slog.Logger
}

// Option configures a fetcher.
type Option func(*options)

// WithBaseURL sets the GitHub web root used for downloads and links.
func WithBaseURL(base string) Option {
	return func(o *options) {
		if base != "" {
			o.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithToken authenticates git clones. Archive downloads take the token from
// the HTTP client instead.
func WithToken(token string) Option {
	return func(o *options) {
		o.token = strings.TrimSpace(token)
	}
}

// WithLimits overrides the archive and single file size limits. Zero keeps
// the default.
func WithLimits(archiveBytes, fileBytes int64) Option {
	return func(o *options) {
		if archiveBytes > 0 {
			o.maxArchiveBytes = archiveBytes
		}
		if fileBytes > 0 {
			o.maxFileBytes = fileBytes
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = logging.OrNop(l)
	}
}

func newOptions(opts []Option) options {
	o := options{
		baseURL:         DefaultGitHubURL,
		maxArchiveBytes: DefaultMaxArchiveBytes,
		maxFileBytes:    DefaultMaxFileBytes,
		logger:          logging.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
