package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirExists(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.True(t, DirExists(tmp))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(filepath.Join(tmp, "missing")))
}

func TestRequireFile(t *testing.T) {
	tmp := t.TempDir()
	file := filepath.Join(tmp, "a.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	assert.NoError(t, RequireFile(file))

	err := RequireFile(filepath.Join(tmp, "missing.csv"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "missing.csv")

	assert.Error(t, RequireFile(tmp))
}

func TestEnsureParentDir(t *testing.T) {
	tmp := t.TempDir()
	out := filepath.Join(tmp, "results", "nested", "out.csv")

	require.NoError(t, EnsureParentDir(out))
	assert.True(t, DirExists(filepath.Dir(out)))
	assert.NoError(t, EnsureParentDir("out.csv"))
}
