package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/gofrs/flock"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Save writes settings as YAML to path under an advisory file lock.
func Save(path string, s *Settings) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return withFileLock(path, func() error {
		return atomicWriteFile(path, data, 0o644)
	})
}

// WriteIfMissing writes content to path unless the file already exists.
// It reports whether the file was created.
func WriteIfMissing(path string, content []byte) (bool, error) {
	created := false
	err := withFileLock(path, func() error {
		if _, err := os.Stat(path); err == nil {
			return nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to stat config %s: %w", path, err)
		}

		if err := atomicWriteFile(path, content, 0o644); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}

// atomicWriteFile writes data to path using a temp-file + fsync + rename
// strategy so that a crash mid-write never leaves the target truncated or
// partial. The temp file is created in the target's parent directory to
// guarantee same-filesystem rename semantics on POSIX.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, ".vitehook-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}

	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file for %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file for %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("setting permissions on temp file for %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}

	success = true
	return nil
}

// withFileLock acquires an advisory file lock on path+".lock" before running fn,
// so two 'vitehook init' invocations never interleave writes.
func withFileLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}

	fl := flock.New(path + ".lock")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return fmt.Errorf("acquiring file lock for %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("timed out acquiring file lock for %s", path)
	}
	defer func() {
		_ = fl.Unlock()
		_ = os.Remove(path + ".lock")
	}()

	return fn()
}

// Keys lists the settings that SetValue accepts.
func Keys() []string {
	return []string{
		"vite_dev_server.start_vite",
		"vite_dev_server.port",
		"vite_dev_server.https",
		"vite_dev_server.command",
		"vite_dev_server.root",
		"vite_dev_server.start_timeout",
		"parallel_mode",
		"test_workers_enabled",
		"cache_dir",
		"component_type",
		"logging.file_enabled",
		"logging.max_size_mb",
		"logging.max_age_days",
		"logging.max_backups",
		"logging.compress",
	}
}

// UnknownKeyError is returned by SetValue for a key not listed by Keys.
type UnknownKeyError struct {
	Key string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown configuration key %q", e.Key)
}

// SetValue sets key to value in the config file at path and saves it. The
// file is created when missing. The result is validated before anything is
// written; environment overrides are not applied.
func SetValue(path, key, value string) (*Settings, error) {
	if !slices.Contains(Keys(), key) {
		return nil, &UnknownKeyError{Key: key}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	v.Set(key, value)

	settings, err := decode(v)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	if err := NewValidator().Validate(settings); err != nil {
		return nil, err
	}

	if err := Save(path, settings); err != nil {
		return nil, err
	}
	return settings, nil
}
