package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Changelog Checker Configuration
# See 'changelog-checker config -h' for commands, 'changelog-checker config keys' for all options

# Input
parser: uv                            # Dependency tool output: uv | pip

# Output
output_format: terminal               # terminal | html | markdown | json
output_file: ""                       # Report file (empty = stdout; html defaults to changelog_report.html)
plain: false                          # Disable colors and spinners

# Fetching
max_parallel: 8                       # Packages researched concurrently (1-32)
http_timeout: 15s                     # Per-request timeout (e.g., '15s', '1m')
requests_per_second: 10               # Outbound rate limit (0 = unlimited)
fetch_method: archive                 # archive | git
search_fallback: true                 # Search GitHub when PyPI lists no repository
# github_token: ""                    # Prefer the GITHUB_TOKEN environment variable

# Endpoints
pypi_url: https://pypi.org
github_api_url: https://api.github.com
github_url: https://github.com

# Logging
log_level: warn                       # debug | info | warn | error
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]any {
	return map[string]any{
		"parser":        "uv",
		"output_format": "terminal",
		"output_file":   "",
		"plain":         false,
		// max_parallel bounds concurrent PyPI lookups and repository fetches.
		"max_parallel":        8,
		"http_timeout":        (15 * time.Second).String(),
		"requests_per_second": 10.0,
		"github_token":        "",
		// fetch_method: "archive" downloads HEAD.tar.gz; "git" performs an
		// in-memory shallow clone.
		"fetch_method":    "archive",
		"search_fallback": true,
		"pypi_url":        "https://pypi.org",
		"github_api_url":  "https://api.github.com",
		"github_url":      "https://github.com",
		"log_level":       "warn",
	}
}
