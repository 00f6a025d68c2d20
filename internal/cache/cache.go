// Package cache removes the test runner's on-disk cache after a run.
package cache

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

// Cleaner deletes a single cache directory.
type Cleaner struct {
	Dir string
	fs  afero.Fs
}

// NewCleaner returns a Cleaner for dir on the OS filesystem.
func NewCleaner(dir string) *Cleaner {
	return NewCleanerWithFs(afero.NewOsFs(), dir)
}

// NewCleanerWithFs returns a Cleaner for dir on fsys.
func NewCleanerWithFs(fsys afero.Fs, dir string) *Cleaner {
	return &Cleaner{Dir: dir, fs: fsys}
}

// Clean removes Dir recursively. A missing directory is not an error; any
// other failure is returned so a half-deleted cache is not silently reused.
func (c *Cleaner) Clean() error {
	if c.Dir == "" {
		return nil
	}
	if err := c.fs.RemoveAll(c.Dir); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove cache directory %s: %w", c.Dir, err)
	}
	return nil
}
