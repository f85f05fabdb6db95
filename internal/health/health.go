// Package health provides connectivity checks for changelog-checker. It
// verifies that the configured PyPI and GitHub endpoints answer and reports
// the GitHub rate limit budget, returning structured reports used by the
// 'changelog-checker doctor' command.
package health

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ariel-frischer/changelog-checker/internal/httpx"
)

// Getter is the subset of httpx.Client the checks need.
type Getter interface {
	GetJSON(ctx context.Context, rawURL string, v any) error
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Name    string
	Passed  bool
	Message string
	// Optional marks advisory checks that never fail the report.
	Optional bool
}

// HealthReport contains all health check results
type HealthReport struct {
	Checks []CheckResult
	Passed bool
}

// Endpoints names the services to check.
type Endpoints struct {
	PyPIURL      string
	GitHubAPIURL string
	TokenPresent bool
}

// referencePackage is looked up on PyPI; any long-lived project works.
const referencePackage = "pip"

// RunHealthChecks runs all health checks and returns a report.
func RunHealthChecks(ctx context.Context, client Getter, ep Endpoints) *HealthReport {
	report := &HealthReport{Passed: true}

	add := func(r CheckResult) {
		report.Checks = append(report.Checks, r)
		if !r.Passed && !r.Optional {
			report.Passed = false
		}
	}

	add(CheckPyPI(ctx, client, ep.PyPIURL))
	add(CheckGitHubAPI(ctx, client, ep.GitHubAPIURL, ep.TokenPresent))
	add(CheckToken(ep.TokenPresent))

	return report
}

// CheckPyPI fetches the JSON metadata of a well-known package.
func CheckPyPI(ctx context.Context, client Getter, baseURL string) CheckResult {
	result := CheckResult{Name: "PyPI"}
	target := strings.TrimRight(baseURL, "/") + "/pypi/" + referencePackage + "/json"

	start := time.Now()
	var meta struct {
		Info struct {
			Version string `json:"version"`
		} `json:"info"`
	}
	if err := client.GetJSON(ctx, target, &meta); err != nil {
		result.Message = fmt.Sprintf("%s unreachable: %v", baseURL, err)
		return result
	}

	result.Passed = true
	result.Message = fmt.Sprintf("%s reachable (%s)", baseURL, time.Since(start).Round(time.Millisecond))
	return result
}

// CheckGitHubAPI queries /rate_limit, which does not count against the
// caller's quota.
func CheckGitHubAPI(ctx context.Context, client Getter, apiURL string, tokenPresent bool) CheckResult {
	result := CheckResult{Name: "GitHub API"}
	target := strings.TrimRight(apiURL, "/") + "/rate_limit"

	var limits struct {
		Resources struct {
			Core struct {
				Limit     int   `json:"limit"`
				Remaining int   `json:"remaining"`
				Reset     int64 `json:"reset"`
			} `json:"core"`
		} `json:"resources"`
	}
	if err := client.GetJSON(ctx, target, &limits); err != nil {
		result.Message = fmt.Sprintf("%s unreachable: %v", apiURL, err)
		if httpx.IsUnauthorized(err) && tokenPresent {
			result.Message = fmt.Sprintf("%s rejected the GitHub token", apiURL)
		}
		return result
	}

	core := limits.Resources.Core
	result.Passed = true
	result.Message = fmt.Sprintf("%s reachable (%d/%d requests remaining)", apiURL, core.Remaining, core.Limit)
	if core.Limit > 0 && core.Remaining == 0 {
		result.Passed = false
		reset := time.Unix(core.Reset, 0).UTC().Format(time.RFC3339)
		result.Message = fmt.Sprintf("%s rate limit exhausted until %s", apiURL, reset)
	}
	return result
}

// CheckToken reports whether a GitHub token is configured. It never fails
// the report.
func CheckToken(present bool) CheckResult {
	if present {
		return CheckResult{Name: "GitHub token", Passed: true, Optional: true, Message: "configured"}
	}
	return CheckResult{
		Name:     "GitHub token",
		Optional: true,
		Message:  "not set; unauthenticated requests are limited to 60 per hour (set GITHUB_TOKEN)",
	}
}

// FormatReport formats the health report for console output
func FormatReport(report *HealthReport) string {
	var b strings.Builder

	for _, check := range report.Checks {
		switch {
		case check.Passed:
			fmt.Fprintf(&b, "✓ %s: %s\n", check.Name, check.Message)
		case check.Optional:
			fmt.Fprintf(&b, "○ %s: %s\n", check.Name, check.Message)
		default:
			fmt.Fprintf(&b, "✗ %s: %s\n", check.Name, check.Message)
		}
	}

	return b.String()
}
