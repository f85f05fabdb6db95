package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCategory_String(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		category ErrorCategory
		want     string
	}{
		"argument":      {category: Argument, want: "Argument Error"},
		"configuration": {category: Configuration, want: "Configuration Error"},
		"input":         {category: Input, want: "Input Error"},
		"runtime":       {category: Runtime, want: "Runtime Error"},
		"unknown":       {category: ErrorCategory(42), want: "Error"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.category.String())
		})
	}
}

func TestWrapWithMessage(t *testing.T) {
	t.Parallel()

	assert.Nil(t, WrapWithMessage(nil, Runtime, "ignored"))

	cause := stderrors.New("connection refused")
	err := WrapWithMessage(cause, Runtime, "fetching", "retry later")
	assert.Equal(t, "fetching: connection refused", err.Error())
	assert.Equal(t, []string{"retry later"}, err.Remediation)
	assert.ErrorIs(t, err, cause)
}

func TestAsCLIError(t *testing.T) {
	t.Parallel()

	cliErr := EmptyInput()
	wrapped := fmt.Errorf("reading input: %w", cliErr)

	assert.Same(t, cliErr, AsCLIError(wrapped))
	assert.Nil(t, AsCLIError(stderrors.New("plain")))
	assert.Nil(t, AsCLIError(nil))
}

func TestFormatErrorPlain(t *testing.T) {
	t.Parallel()

	err := NewArgumentErrorWithUsage("bad flag", "changelog-checker --parser <uv|pip>", "Use uv", "Or pip")
	got := FormatErrorPlain(err)

	want := "Error [Argument Error]: bad flag\n" +
		"\n" +
		"Usage: changelog-checker --parser <uv|pip>\n" +
		"\n" +
		"To fix this:\n" +
		"  • Use uv\n" +
		"  • Or pip\n"
	assert.Equal(t, want, got)
	assert.Empty(t, FormatErrorPlain(nil))
}

func TestFprintError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	FprintError(&buf, InputFileNotFound("missing.txt"))
	assert.Contains(t, buf.String(), "No such file: missing.txt")

	buf.Reset()
	FprintError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestMessages(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("boom")
	tests := map[string]struct {
		err          *CLIError
		category     ErrorCategory
		wantContains string
	}{
		"empty input":      {err: EmptyInput(), category: Input, wantContains: "Empty input provided"},
		"input not found":  {err: InputFileNotFound("x.txt"), category: Argument, wantContains: "No such file"},
		"invalid output":   {err: InvalidParserOutput("uv", cause), category: Argument, wantContains: "doesn't appear to be from uv"},
		"unknown parser":   {err: UnknownParser("poetry", []string{"pip", "uv"}), category: Argument, wantContains: "unknown parser: poetry"},
		"unknown format":   {err: UnknownOutputFormat("pdf", []string{"json"}), category: Argument, wantContains: "unknown output format: pdf"},
		"check failed":     {err: CheckFailed(cause), category: Runtime, wantContains: "Failed to check dependencies: boom"},
		"timed out":        {err: CheckTimedOut("30s"), category: Runtime, wantContains: "timed out after 30s"},
		"config":           {err: ConfigParseError(cause), category: Configuration, wantContains: "failed to load configuration"},
		"changelog absent": {err: ChangelogFileNotFound("CHANGES.rst"), category: Input, wantContains: "CHANGES.rst"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Contains(t, tt.err.Error(), tt.wantContains)
		})
	}
}

func TestInvalidParserOutput_Unwraps(t *testing.T) {
	t.Parallel()

	cause := stderrors.New("no diff lines")
	err := InvalidParserOutput("pip", cause)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Usage+err.Remediation[0], "--parser")
}
