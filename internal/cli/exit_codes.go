package cli

import (
	"context"
	"errors"
	"fmt"

	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
)

// Exit codes for the changelog-checker CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitCheckFailed indicates the check could not be completed
	ExitCheckFailed = 1

	// ExitInvalidArguments indicates invalid arguments, configuration or
	// input that does not match the selected parser
	ExitInvalidArguments = 3

	// ExitMissingInput indicates that no dependency output was provided
	ExitMissingInput = 4

	// ExitTimeout indicates command execution timed out
	ExitTimeout = 5
)

// ExitError carries a process exit code alongside the error that caused it.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError creates an ExitError for code and err.
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ExitTimeout
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case clierrors.Argument, clierrors.Configuration:
			return ExitInvalidArguments
		case clierrors.Input:
			return ExitMissingInput
		}
	}
	return ExitCheckFailed
}
