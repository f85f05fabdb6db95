package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate keeps real user and project config files out of a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", dir)
	t.Setenv("GITHUB_TOKEN", "")
	t.Chdir(dir)
	return dir
}

type result struct {
	code   int
	stdout string
	stderr string
}

func run(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := ExecuteContext(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

// runPlain runs with --plain so output carries no color codes.
func runPlain(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	return run(t, stdin, append(args, "--plain")...)
}

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()
	assert.Equal(t, "changelog-checker", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.Contains(t, cmd.Long, "Changelog Checker")
	assert.NotEmpty(t, cmd.Example)
	assert.Len(t, cmd.Groups(), 2)

	names := make([]string, 0, len(cmd.Commands()))
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"extract", "config", "doctor", "version"})
}

func TestRootCmd_Flags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagName   string
		shorthand  string
		persistent bool
	}{
		"input-file":    {flagName: "input-file", shorthand: "i"},
		"parser":        {flagName: "parser", shorthand: "p"},
		"output-format": {flagName: "output-format", shorthand: "f"},
		"output-file":   {flagName: "output-file", shorthand: "o"},
		"max-parallel":  {flagName: "max-parallel"},
		"fetch-method":  {flagName: "fetch-method"},
		"timeout":       {flagName: "timeout"},
		"set":           {flagName: "set"},
		"config":        {flagName: "config", persistent: true},
		"plain":         {flagName: "plain", persistent: true},
		"verbose":       {flagName: "verbose", shorthand: "v", persistent: true},
		"debug":         {flagName: "debug", persistent: true},
	}

	cmd := NewRootCmd()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			flags := cmd.Flags()
			if tt.persistent {
				flags = cmd.PersistentFlags()
			}
			flag := flags.Lookup(tt.flagName)
			require.NotNil(t, flag, "flag %s should exist", tt.flagName)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
		})
	}
}

func TestCheck_InputErrors(t *testing.T) {
	tests := map[string]struct {
		stdin      string
		args       []string
		wantCode   int
		wantStderr string
	}{
		"empty stdin": {
			stdin:      "  \n",
			wantCode:   ExitMissingInput,
			wantStderr: "Empty input provided",
		},
		"missing input file": {
			args:       []string{"--input-file", "does-not-exist.txt"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "No such file",
		},
		"not uv output": {
			stdin:      "hello world\n",
			wantCode:   ExitInvalidArguments,
			wantStderr: "doesn't appear to be from uv",
		},
		"not pip output": {
			stdin:      "hello world\n",
			args:       []string{"--parser", "pip"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "doesn't appear to be from pip",
		},
		"unknown parser": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"-p", "poetry"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown parser: poetry",
		},
		"unknown format": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"-f", "pdf"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "unknown output format: pdf",
		},
		"bad set syntax": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"--set", "max_parallel"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "invalid --set value",
		},
		"bad set value": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"--set", "max_parallel=lots"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "invalid integer",
		},
		"config out of range": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"--max-parallel", "99"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "must be at most 32",
		},
		"missing config file": {
			stdin:      "Resolved 1 package\n",
			args:       []string{"--config", "nope.yml"},
			wantCode:   ExitInvalidArguments,
			wantStderr: "config file not found",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)

			res := runPlain(t, tt.stdin, tt.args...)

			assert.Equal(t, tt.wantCode, res.code, res.stderr)
			assert.Contains(t, res.stderr, tt.wantStderr)
			assert.Empty(t, res.stdout)
		})
	}
}

func TestCheck_EmptyInputFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	res := runPlain(t, "", "-i", path)
	assert.Equal(t, ExitMissingInput, res.code)
	assert.Contains(t, res.stderr, "Empty input provided")
}

func TestVersionCmd(t *testing.T) {
	isolate(t)

	res := runPlain(t, "", "version")
	require.Equal(t, ExitSuccess, res.code, res.stderr)
	assert.Contains(t, res.stdout, "changelog-checker dev")
	assert.Contains(t, res.stdout, "platform: ")
	assert.Equal(t, "abc", truncateCommit("abc"))
	assert.Equal(t, "12345678", truncateCommit("1234567890"))
}

func TestExecute_ErrorOutputWithoutTerminal(t *testing.T) {
	tests := map[string]struct {
		args      []string
		wantParts []string
	}{
		"argument error with usage": {
			args:      []string{"extract", "only-one-arg"},
			wantParts: []string{"Error [Argument Error]: accepts 3 arg(s)", "Usage: changelog-checker extract <file> <old-version> <new-version>"},
		},
		"input error with remediation": {
			args:      []string{"extract", "missing.md", "1.0", "2.0"},
			wantParts: []string{"changelog file not found: missing.md", "To fix this:"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)

			// No --plain: a buffer is not a terminal, so colors are dropped.
			res := run(t, "", tt.args...)
			assert.NotEqual(t, ExitSuccess, res.code)
			assert.NotContains(t, res.stderr, "\x1b[")
			for _, want := range tt.wantParts {
				assert.Contains(t, res.stderr, want)
			}
		})
	}
}
