package elgamal

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorf(t *testing.T) {
	err := Errorf("Encrypt", ErrKeysNotConfigured, "needs %s", "y")
	require.ErrorIs(t, err, ErrKeysNotConfigured)
	assert.NotErrorIs(t, err, ErrInvalidKey)
	assert.Equal(t, "elgamal.Encrypt: elgamal: keys not configured: needs y", err.Error())

	var opErr *Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "Encrypt", opErr.Op)
}

func TestWrapIO(t *testing.T) {
	assert.NoError(t, WrapIO("Load", nil))

	_, statErr := os.Stat(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, statErr)

	err := WrapIO("Load", statErr)
	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pathErr *fs.PathError
	assert.ErrorAs(t, err, &pathErr)

	// Wrapping twice keeps the first operation.
	again := WrapIO("Outer", err)
	assert.Same(t, err, again)

	var opErr *Error
	require.ErrorAs(t, again, &opErr)
	assert.Equal(t, "Load", opErr.Op)
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{
		ErrInvalidKey, ErrKeysNotConfigured, ErrEmptyInput, ErrIO,
		ErrOutOfRangeResult, ErrInvalidParameter, ErrMaxAttempts,
		ErrFactorization, ErrMalformedCiphertext, ErrMalformedKeyFile,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v matches %v", a, b)
			}
		}
	}
}
