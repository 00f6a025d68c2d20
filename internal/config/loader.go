package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default configuration file name
	ConfigFileName = "vitehook.yaml"
	// EnvPrefix prefixes environment overrides, e.g. VITEHOOK_VITE_DEV_SERVER_PORT
	EnvPrefix = "VITEHOOK"
)

// Loader handles loading and parsing of vitehook configuration
type Loader struct {
	workDir    string
	configPath string
	viper      *viper.Viper
}

// NewLoader creates a new configuration loader for the given working directory
func NewLoader(workDir string) *Loader {
	return &Loader{
		workDir: workDir,
		viper:   viper.New(),
	}
}

// NewLoaderWithPath creates a loader that reads an explicit config file.
// The file must exist.
func NewLoaderWithPath(path string) *Loader {
	return &Loader{
		workDir:    filepath.Dir(path),
		configPath: path,
		viper:      viper.New(),
	}
}

// Load reads vitehook.yaml, applies VITEHOOK_* environment overrides and
// returns the resulting Settings. A missing default config file is not an
// error: defaults (plus environment) are returned.
func (l *Loader) Load() (*Settings, error) {
	configPath := l.ConfigPath()

	l.viper.SetConfigType("yaml")
	l.viper.SetEnvPrefix(EnvPrefix)
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.viper.AutomaticEnv()

	setDefaults(l.viper)

	if _, err := os.Stat(configPath); err == nil {
		l.viper.SetConfigFile(configPath)
		if err := l.viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if os.IsNotExist(err) {
		if l.configPath != "" {
			return nil, &ConfigNotFoundError{Path: configPath}
		}
	} else {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	return decode(l.viper)
}

func decode(v *viper.Viper) (*Settings, error) {
	var settings Settings
	if err := v.Unmarshal(&settings, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &settings, nil
}

// setDefaults registers every key so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	defaults := DefaultSettings()
	v.SetDefault("vite_dev_server.start_vite", defaults.ViteDevServer.StartVite)
	v.SetDefault("vite_dev_server.port", defaults.ViteDevServer.Port)
	v.SetDefault("vite_dev_server.https", defaults.ViteDevServer.HTTPS)
	v.SetDefault("vite_dev_server.command", defaults.ViteDevServer.Command)
	v.SetDefault("vite_dev_server.root", defaults.ViteDevServer.Root)
	v.SetDefault("vite_dev_server.start_timeout", defaults.ViteDevServer.StartTimeout)
	v.SetDefault("parallel_mode", false)
	v.SetDefault("test_workers_enabled", false)
	v.SetDefault("cache_dir", defaults.CacheDir)
	v.SetDefault("component_type", defaults.ComponentType)
	v.SetDefault("logging.max_size_mb", 0)
	v.SetDefault("logging.max_age_days", 0)
	v.SetDefault("logging.max_backups", 0)
}

// ConfigPath returns the full path to the config file
func (l *Loader) ConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}
	return filepath.Join(l.workDir, ConfigFileName)
}

// Exists checks if the configuration file exists
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.ConfigPath())
	return err == nil
}

// ConfigNotFoundError is returned when an explicitly requested config file doesn't exist
type ConfigNotFoundError struct {
	Path string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("configuration file not found: %s", e.Path)
}

// IsConfigNotFound returns true if the error is a ConfigNotFoundError
func IsConfigNotFound(err error) bool {
	_, ok := err.(*ConfigNotFoundError)
	return ok
}
