package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	clierrors "github.com/ariel-frischer/changelog-checker/internal/errors"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		err  error
		want int
	}{
		"nil":           {err: nil, want: ExitSuccess},
		"plain error":   {err: errors.New("boom"), want: ExitCheckFailed},
		"exit error":    {err: NewExitError(ExitTimeout, nil), want: ExitTimeout},
		"wrapped exit":  {err: fmt.Errorf("outer: %w", NewExitError(ExitMissingInput, errors.New("x"))), want: ExitMissingInput},
		"deadline":      {err: fmt.Errorf("checking: %w", context.DeadlineExceeded), want: ExitTimeout},
		"argument":      {err: clierrors.InputFileNotFound("x"), want: ExitInvalidArguments},
		"configuration": {err: clierrors.ConfigParseError(errors.New("bad")), want: ExitInvalidArguments},
		"input":         {err: clierrors.EmptyInput(), want: ExitMissingInput},
		"runtime":       {err: clierrors.CheckFailed(errors.New("net")), want: ExitCheckFailed},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ExitCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := errors.New("timed out")
	err := NewExitError(ExitTimeout, cause)
	assert.Equal(t, "timed out", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "exit status 4", NewExitError(ExitMissingInput, nil).Error())
}
