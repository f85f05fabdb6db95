// changelog-checker - Changelog excerpts for every dependency bump
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/changelog-checker

// Package config provides layered configuration for changelog-checker using koanf.
// Values are merged with priority: command-line flags > environment variables
// (CHANGELOG_CHECKER_*) > project config (.changelog-checker.yml or --config)
// > user config (~/.config/changelog-checker/config.yml) > defaults.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment variable overrides.
const EnvPrefix = "CHANGELOG_CHECKER_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
	SourceFlag    ConfigSource = "flag"
)

// Configuration represents the changelog-checker configuration
type Configuration struct {
	// Parser selects the dependency tool whose output is read: uv or pip.
	Parser string `koanf:"parser" yaml:"parser" validate:"oneof=uv pip"`

	// OutputFormat is one of terminal, html, markdown or json.
	OutputFormat string `koanf:"output_format" yaml:"output_format" validate:"oneof=terminal html markdown json"`
	// OutputFile receives the report. Empty means stdout, or
	// changelog_report.html for the html format.
	OutputFile string `koanf:"output_file" yaml:"output_file"`
	Plain      bool   `koanf:"plain" yaml:"plain"`

	MaxParallel       int           `koanf:"max_parallel" yaml:"max_parallel" validate:"min=1,max=32"`
	HTTPTimeout       time.Duration `koanf:"http_timeout" yaml:"http_timeout" validate:"min=1s"`
	RequestsPerSecond float64       `koanf:"requests_per_second" yaml:"requests_per_second" validate:"min=0"`

	// GitHubToken authenticates GitHub API calls, archive downloads and
	// clones. Falls back to the GITHUB_TOKEN environment variable.
	GitHubToken string `koanf:"github_token" yaml:"github_token"`
	// FetchMethod is archive (tarball download) or git (shallow clone).
	FetchMethod    string `koanf:"fetch_method" yaml:"fetch_method" validate:"oneof=archive git"`
	SearchFallback bool   `koanf:"search_fallback" yaml:"search_fallback"`

	PyPIURL      string `koanf:"pypi_url" yaml:"pypi_url" validate:"required,url"`
	GitHubAPIURL string `koanf:"github_api_url" yaml:"github_api_url" validate:"required,url"`
	GitHubURL    string `koanf:"github_url" yaml:"github_url" validate:"required,url"`

	LogLevel string `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path. An explicit path
	// must exist; the default one is optional.
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG location).
	UserConfigPath string
	// SkipUserConfig disables the user config layer.
	SkipUserConfig bool
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]any
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
}

// Load loads configuration from user, project, and environment sources.
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	cfg, _, err := LoadWithSources(opts)
	return cfg, err
}

// LoadWithSources loads configuration and reports which layer last set each
// key.
func LoadWithSources(opts LoadOptions) (*Configuration, map[string]ConfigSource, error) {
	k := koanf.New(".")
	t := newTracker()

	loadDefaults(k)
	t.record(k, SourceDefault)

	if !opts.SkipUserConfig {
		if err := loadUserConfig(k, opts.UserConfigPath, getWarningWriter(opts.WarningWriter)); err != nil {
			return nil, nil, err
		}
		t.record(k, SourceUser)
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath); err != nil {
		return nil, nil, err
	}
	t.record(k, SourceProject)

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, nil, err
	}
	t.record(k, SourceEnv)

	for key, value := range opts.Overrides {
		if err := k.Set(key, value); err != nil {
			return nil, nil, fmt.Errorf("applying flag %s: %w", key, err)
		}
	}
	t.record(k, SourceFlag)

	cfg, err := finalizeConfig(k)
	if err != nil {
		return nil, nil, err
	}

	if cfg.GitHubToken == "" {
		if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
			cfg.GitHubToken = token
			t.sources["github_token"] = SourceEnv
		}
	}
	return cfg, t.sources, nil
}

// tracker attributes each key to the layer that last changed its value.
type tracker struct {
	last    map[string]string
	sources map[string]ConfigSource
}

func newTracker() *tracker {
	return &tracker{last: map[string]string{}, sources: map[string]ConfigSource{}}
}

func (t *tracker) record(k *koanf.Koanf, source ConfigSource) {
	for key, value := range k.All() {
		v := fmt.Sprint(value)
		if prev, ok := t.last[key]; !ok || prev != v {
			t.sources[key] = source
		}
		t.last[key] = v
	}
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config when present. A user
// config that cannot be located is skipped with a warning.
func loadUserConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer) error {
	path := customPath
	if path == "" {
		var err error
		path, err = UserConfigPath()
		if err != nil {
			fmt.Fprintf(warningWriter, "Warning: cannot locate user config directory: %v\n", err)
			return nil
		}
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads the project config. The default path is optional;
// an explicitly requested path must exist.
func loadProjectConfig(k *koanf.Koanf, customPath string) error {
	path := ProjectConfigPath()
	if customPath != "" {
		if !fileExists(customPath) {
			return &ValidationError{FilePath: customPath, Message: "config file not found"}
		}
		path = customPath
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadFile(k, path, "project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

// loadFile loads a YAML or JSON config file, choosing the parser by
// extension. YAML syntax is checked first to report line and column.
func loadFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Parser = strings.ToLower(strings.TrimSpace(cfg.Parser))
	cfg.OutputFormat = strings.ToLower(strings.TrimSpace(cfg.OutputFormat))
	cfg.FetchMethod = strings.ToLower(strings.TrimSpace(cfg.FetchMethod))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.OutputFile = expandHomePath(cfg.OutputFile)

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Redacted returns a copy safe to print.
func (c Configuration) Redacted() Configuration {
	if c.GitHubToken != "" {
		c.GitHubToken = "********"
	}
	return c
}

// YAML renders the configuration as YAML.
func (c Configuration) YAML() ([]byte, error) {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CHANGELOG_CHECKER_MAX_PARALLEL -> max_parallel
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}
