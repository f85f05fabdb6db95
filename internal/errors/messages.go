package errors

import (
	"fmt"
	"strings"
)

// Common error messages for the changelog-checker CLI.

// EmptyInput creates an error for stdin or an input file with no content.
func EmptyInput() *CLIError {
	return NewInputError(
		"Empty input provided",
		"Pipe dependency tool output: uv sync -U 2>&1 | changelog-checker",
		"Or read it from a file: changelog-checker --input-file uv-output.txt",
	)
}

// InputFileNotFound creates an error for a missing --input-file.
func InputFileNotFound(path string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("No such file: %s", path),
		"Check the path passed to --input-file",
	)
}

// InvalidParserOutput creates an error when input does not match the selected parser.
func InvalidParserOutput(parser string, err error) *CLIError {
	e := NewArgumentError(
		fmt.Sprintf("Input doesn't appear to be from %s", parser),
		"Select the matching tool with --parser uv or --parser pip",
		"Pass the tool's full output, including its summary lines",
	)
	e.Err = err
	return e
}

// UnknownParser creates an error for an unsupported --parser value.
func UnknownParser(name string, supported []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown parser: %s", name),
		"changelog-checker --parser <"+strings.Join(supported, "|")+">",
	)
}

// UnknownOutputFormat creates an error for an unsupported --output-format value.
func UnknownOutputFormat(name string, supported []string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown output format: %s", name),
		"changelog-checker --output-format <"+strings.Join(supported, "|")+">",
	)
}

// CheckFailed creates an error for a run that failed after the input parsed.
func CheckFailed(err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		"Failed to check dependencies",
		"Check your network connection",
		"Set GITHUB_TOKEN to raise GitHub rate limits",
		"Re-run with --debug for request details",
	)
}

// CheckTimedOut creates an error when the run exceeds --timeout.
func CheckTimedOut(timeout string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("check timed out after %s", timeout),
		"Increase the limit with --timeout",
		"Lower http_timeout or raise max_parallel in config",
	)
}

// ConfigParseError creates an error for an invalid config file or value.
func ConfigParseError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Inspect effective values with: changelog-checker config show",
		"List valid keys with: changelog-checker config keys",
	)
}

// ChangelogFileNotFound creates an error for a missing extract input file.
func ChangelogFileNotFound(path string) *CLIError {
	return NewInputError(
		fmt.Sprintf("changelog file not found: %s", path),
		"Check the path, or pass - to read the changelog from stdin",
	)
}
