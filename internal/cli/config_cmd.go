package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/changelog-checker/internal/config"
	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
)

var (
	cGreen = color.New(color.FgGreen).SprintFunc()
	cBold  = color.New(color.Bold).SprintFunc()
	cDim   = color.New(color.Faint).SprintFunc()
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize changelog-checker configuration",
		Long: `Inspect and initialize changelog-checker configuration.

Configuration is loaded with the following priority (highest to lowest):
  1. Command-line flags
  2. Environment variables (CHANGELOG_CHECKER_*)
  3. Project config (.changelog-checker.yml or --config)
  4. User config (~/.config/changelog-checker/config.yml)
  5. Built-in defaults`,
		Example: `  # Show the effective configuration
  changelog-checker config show

  # Show where each value came from
  changelog-checker config show --sources

  # Create a commented user config
  changelog-checker config init`,
		GroupID: GroupConfig,
	}

	cmd.AddCommand(
		newConfigShowCmd(root),
		newConfigKeysCmd(),
		newConfigInitCmd(),
		newConfigPathCmd(),
	)
	return cmd
}

func newConfigShowCmd(root *rootOptions) *cobra.Command {
	var showSources bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML (token redacted)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides := map[string]any{}
			addLoggingOverrides(root, overrides)

			cfg, sources, err := config.LoadWithSources(config.LoadOptions{
				ProjectConfigPath: root.configPath,
				Overrides:         overrides,
				WarningWriter:     cmd.ErrOrStderr(),
			})
			if err != nil {
				return clierrors.ConfigParseError(err)
			}

			out := cmd.OutOrStdout()
			if showSources {
				return printSources(out, sources)
			}

			data, err := cfg.Redacted().YAML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&showSources, "sources", false, "Show which layer set each key")
	return cmd
}

func printSources(out io.Writer, sources map[string]config.ConfigSource) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSOURCE")
	for _, key := range config.SortedKeys() {
		source, ok := sources[key]
		if !ok {
			source = config.SourceDefault
		}
		fmt.Fprintf(tw, "%s\t%s\n", key, source)
	}
	return tw.Flush()
}

func newConfigKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List every configuration key with its type and default",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tTYPE\tDEFAULT\tDESCRIPTION")
			for _, key := range config.SortedKeys() {
				schema := config.KnownKeys[key]
				typ := schema.Type.String()
				if len(schema.AllowedValues) > 0 {
					typ = strings.Join(schema.AllowedValues, "|")
				}
				fmt.Fprintf(tw, "%s\t%s\t%v\t%s\n", key, typ, schema.Default, schema.Description)
			}
			return tw.Flush()
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var (
		project bool
		force   bool
		path    string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config file",
		Long: `Write a commented default config file.

By default the user config is created. Use --project to create
.changelog-checker.yml in the current directory, or --path for any location.
An existing file is left untouched unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target := path
			if target == "" {
				var err error
				target, err = getConfigPath(project)
				if err != nil {
					return err
				}
			}
			_, err := initializeConfig(cmd.OutOrStdout(), target, force)
			return err
		},
	}

	cmd.Flags().BoolVar(&project, "project", false, "Create the project config instead of the user config")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&path, "path", "", "Write the config to this path")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user and project config paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			userPath, err := config.UserConfigPath()
			if err != nil {
				userPath = "unavailable: " + err.Error()
			}
			fmt.Fprintf(out, "user:    %s\n", userPath)
			fmt.Fprintf(out, "project: %s\n", config.ProjectConfigPath())
			return nil
		},
	}
}

// initializeConfig writes the default template to configPath.
// Returns true if a new file was written.
func initializeConfig(out io.Writer, configPath string, force bool) (bool, error) {
	_, statErr := os.Stat(configPath)
	configExists := statErr == nil

	if configExists && !force {
		fmt.Fprintf(out, "%s %s: exists at %s\n", cGreen("✓"), cBold("Config"), cDim(configPath))
		return false, nil
	}

	if err := writeDefaultConfig(configPath); err != nil {
		return false, fmt.Errorf("writing default config: %w", err)
	}

	verb := "created"
	if configExists {
		verb = "overwritten"
	}
	fmt.Fprintf(out, "%s %s: %s at %s\n", cGreen("✓"), cBold("Config"), verb, cDim(configPath))
	return true, nil
}

// getConfigPath returns the appropriate config path based on project flag
func getConfigPath(project bool) (string, error) {
	if project {
		return config.ProjectConfigPath(), nil
	}
	configPath, err := config.UserConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to get user config path: %w", err)
	}
	return configPath, nil
}

// writeDefaultConfig writes the default configuration to the given path
func writeDefaultConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(configPath, []byte(template), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
