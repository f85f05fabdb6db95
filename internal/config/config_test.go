package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())

	cfg, sources, err := LoadWithSources(LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)

	assert.Equal(t, "uv", cfg.Parser)
	assert.Equal(t, "terminal", cfg.OutputFormat)
	assert.Equal(t, 8, cfg.MaxParallel)
	assert.Equal(t, 15*time.Second, cfg.HTTPTimeout)
	assert.InDelta(t, 10.0, cfg.RequestsPerSecond, 0.001)
	assert.Equal(t, "archive", cfg.FetchMethod)
	assert.True(t, cfg.SearchFallback)
	assert.Equal(t, "https://pypi.org", cfg.PyPIURL)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Empty(t, cfg.GitHubToken)
	assert.Equal(t, SourceDefault, sources["max_parallel"])
}

func TestLoad_LayerPriority(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	user := writeFile(t, dir, "user.yml", "parser: pip\nmax_parallel: 2\nplain: true\n")
	project := writeFile(t, dir, "project.yml", "max_parallel: 4\noutput_format: markdown\n")
	t.Setenv("CHANGELOG_CHECKER_OUTPUT_FORMAT", "json")

	cfg, sources, err := LoadWithSources(LoadOptions{
		UserConfigPath:    user,
		ProjectConfigPath: project,
		Overrides:         map[string]any{"fetch_method": "git"},
	})
	require.NoError(t, err)

	assert.Equal(t, "pip", cfg.Parser)
	assert.True(t, cfg.Plain)
	assert.Equal(t, 4, cfg.MaxParallel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "git", cfg.FetchMethod)

	assert.Equal(t, SourceUser, sources["parser"])
	assert.Equal(t, SourceProject, sources["max_parallel"])
	assert.Equal(t, SourceEnv, sources["output_format"])
	assert.Equal(t, SourceFlag, sources["fetch_method"])
	assert.Equal(t, SourceDefault, sources["log_level"])
}

func TestLoad_EnvValuesAreTyped(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())
	t.Setenv("CHANGELOG_CHECKER_MAX_PARALLEL", "16")
	t.Setenv("CHANGELOG_CHECKER_HTTP_TIMEOUT", "1m")
	t.Setenv("CHANGELOG_CHECKER_SEARCH_FALLBACK", "false")

	cfg, err := LoadWithOptions(LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.MaxParallel)
	assert.Equal(t, time.Minute, cfg.HTTPTimeout)
	assert.False(t, cfg.SearchFallback)
}

func TestLoad_GitHubTokenFallback(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GITHUB_TOKEN", " ghp_fallback ")

	cfg, sources, err := LoadWithSources(LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "ghp_fallback", cfg.GitHubToken)
	assert.Equal(t, SourceEnv, sources["github_token"])

	t.Setenv("CHANGELOG_CHECKER_GITHUB_TOKEN", "ghp_explicit")
	cfg, err = LoadWithOptions(LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "ghp_explicit", cfg.GitHubToken)
}

func TestLoad_DefaultProjectConfig(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "output_format: html\noutput_file: report.html\n")
	t.Chdir(dir)

	cfg, err := LoadWithOptions(LoadOptions{SkipUserConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "html", cfg.OutputFormat)
	assert.Equal(t, "report.html", cfg.OutputFile)
}

func TestLoad_JSONProjectConfig(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	path := writeFile(t, dir, "checker.json", `{"parser": "pip", "max_parallel": 3}`)

	cfg, err := LoadWithOptions(LoadOptions{SkipUserConfig: true, ProjectConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "pip", cfg.Parser)
	assert.Equal(t, 3, cfg.MaxParallel)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		content string
		wantErr string
	}{
		"bad parser": {
			content: "parser: poetry\n",
			wantErr: "field 'parser': must be one of: uv, pip",
		},
		"too parallel": {
			content: "max_parallel: 64\n",
			wantErr: "field 'max_parallel': must be at most 32",
		},
		"zero parallel": {
			content: "max_parallel: 0\n",
			wantErr: "field 'max_parallel': must be at least 1",
		},
		"bad url": {
			content: "pypi_url: not a url\n",
			wantErr: "field 'pypi_url': must be a valid URL",
		},
		"bad fetch method": {
			content: "fetch_method: svn\n",
			wantErr: "must be one of: archive, git",
		},
		"broken yaml": {
			content: "parser: [uv\n",
			wantErr: "validating YAML syntax",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv("GITHUB_TOKEN", "")
			path := writeFile(t, t.TempDir(), "config.yml", tt.content)

			_, err := LoadWithOptions(LoadOptions{SkipUserConfig: true, ProjectConfigPath: path})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_MissingExplicitProjectConfig(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_MissingUserConfigIsIgnored(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(t.TempDir())
	var warnings bytes.Buffer

	cfg, err := LoadWithOptions(LoadOptions{
		UserConfigPath: filepath.Join(t.TempDir(), "missing.yml"),
		WarningWriter:  &warnings,
	})
	require.NoError(t, err)
	assert.Equal(t, "uv", cfg.Parser)
	assert.Empty(t, warnings.String())
}

func TestConfiguration_RedactedAndYAML(t *testing.T) {
	t.Parallel()

	cfg := Configuration{Parser: "uv", GitHubToken: "ghp_secret", HTTPTimeout: 15 * time.Second}

	redacted := cfg.Redacted()
	assert.Equal(t, "********", redacted.GitHubToken)
	assert.Equal(t, "ghp_secret", cfg.GitHubToken)

	data, err := redacted.YAML()
	require.NoError(t, err)
	assert.Contains(t, string(data), "parser: uv")
	assert.Contains(t, string(data), "http_timeout: 15s")
	assert.NotContains(t, string(data), "ghp_secret")

	assert.Empty(t, Configuration{}.Redacted().GitHubToken)
}

func TestDefaultsMatchSchema(t *testing.T) {
	t.Parallel()

	defaults := GetDefaults()
	for _, key := range SortedKeys() {
		_, ok := defaults[key]
		assert.True(t, ok, "schema key %s has no default", key)
	}
	assert.Len(t, defaults, len(KnownKeys))
}

func TestDefaultConfigTemplateLoads(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	path := writeFile(t, t.TempDir(), "config.yml", GetDefaultConfigTemplate())

	cfg, err := LoadWithOptions(LoadOptions{SkipUserConfig: true, ProjectConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "uv", cfg.Parser)
	assert.Equal(t, 8, cfg.MaxParallel)
}
