package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-checker/internal/health"
)

func newDoctorCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check connectivity to PyPI and GitHub",
		Long: `Check that the configured PyPI and GitHub endpoints answer.

Reports the remaining GitHub API budget and whether a token is configured.
Exits non-zero when an endpoint is unreachable or the rate limit is spent.`,
		Example: `  changelog-checker doctor
  CHANGELOG_CHECKER_PYPI_URL=https://pypi.internal changelog-checker doctor`,
		GroupID: GroupCheck,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			addLoggingOverrides(root, overrides)

			cfg, err := loadConfig(cmd, root, overrides)
			if err != nil {
				return err
			}
			logger := newLogger(cmd.ErrOrStderr(), cfg)

			report := health.RunHealthChecks(cmd.Context(), newHTTPClient(cfg, logger), health.Endpoints{
				PyPIURL:      cfg.PyPIURL,
				GitHubAPIURL: cfg.GitHubAPIURL,
				TokenPresent: cfg.GitHubToken != "",
			})
			fmt.Fprint(cmd.OutOrStdout(), health.FormatReport(report))

			if !report.Passed {
				return NewExitError(ExitCheckFailed, nil)
			}
			return nil
		},
	}
}
