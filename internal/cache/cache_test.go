package cache

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanRemovesDirectoryTree(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("nightwatch/.cache/deps", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "nightwatch/.cache/deps/react.js", []byte("x"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "nightwatch/keep.js", []byte("y"), 0o644))

	c := NewCleanerWithFs(fsys, "nightwatch/.cache")
	require.NoError(t, c.Clean())

	exists, err := afero.DirExists(fsys, "nightwatch/.cache")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = afero.Exists(fsys, "nightwatch/keep.js")
	require.NoError(t, err)
	assert.True(t, exists, "siblings of the cache directory must survive")
}

func TestCleanMissingDirectory(t *testing.T) {
	c := NewCleanerWithFs(afero.NewMemMapFs(), "nightwatch/.cache")
	assert.NoError(t, c.Clean())
	assert.NoError(t, c.Clean())
}

func TestCleanEmptyDirIsNoop(t *testing.T) {
	c := NewCleanerWithFs(afero.NewReadOnlyFs(afero.NewMemMapFs()), "")
	assert.NoError(t, c.Clean())
}

func TestCleanReportsFailure(t *testing.T) {
	base := afero.NewMemMapFs()
	require.NoError(t, base.MkdirAll("nightwatch/.cache", 0o755))

	c := NewCleanerWithFs(afero.NewReadOnlyFs(base), "nightwatch/.cache")
	err := c.Clean()
	require.Error(t, err)
	assert.ErrorIs(t, err, syscall.EPERM)
	assert.Contains(t, err.Error(), "nightwatch/.cache")
}

func TestCleanOsFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nightwatch", ".cache")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "vite"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "vite", "a.json"), []byte("{}"), 0o644))

	require.NoError(t, NewCleaner(dir).Clean())

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}
