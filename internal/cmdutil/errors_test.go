package cmdutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError(t *testing.T) {
	err := &ExitError{Code: 3}
	assert.Equal(t, "exit status 3", err.Error())

	wrapped := fmt.Errorf("run failed: %w", err)
	var exitErr *ExitError
	require.True(t, errors.As(wrapped, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
}

func TestFlagErrorf(t *testing.T) {
	err := FlagErrorf("unknown flag: %s", "--foo")
	assert.Equal(t, "unknown flag: --foo", err.Error())

	var flagErr *FlagError
	require.True(t, errors.As(err, &flagErr))
}

func TestFlagErrorWrap(t *testing.T) {
	inner := fmt.Errorf("bad value")
	err := FlagErrorWrap(inner)
	assert.Equal(t, "bad value", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestSilentError(t *testing.T) {
	err := fmt.Errorf("something failed: %w", SilentError)
	assert.True(t, errors.Is(err, SilentError))
}
