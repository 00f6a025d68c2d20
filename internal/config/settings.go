package config

import (
	"fmt"
	"time"
)

// Settings is the configuration object threaded through the lifecycle hooks.
// The hooks read the dev server options and run mode from it and write the
// resolved port and URLs back into it.
type Settings struct {
	// ViteDevServer configures how the dev server is started or verified.
	ViteDevServer ViteDevServer `yaml:"vite_dev_server" mapstructure:"vite_dev_server"`

	// ParallelMode is set by the host when tests run in separate processes.
	ParallelMode bool `yaml:"parallel_mode,omitempty" mapstructure:"parallel_mode"`
	// TestWorkersEnabled is set by the host when tests are delegated to worker threads.
	TestWorkersEnabled bool `yaml:"test_workers_enabled,omitempty" mapstructure:"test_workers_enabled"`

	// CacheDir is removed after the run (default: nightwatch/.cache)
	CacheDir string `yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`
	// ComponentType selects the framework plugin in the generated vite.config.js (default: react)
	ComponentType string `yaml:"component_type,omitempty" mapstructure:"component_type"`

	// Logging configures file-based logging.
	Logging LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`

	// LaunchURL and BaseURL are produced by the before hooks.
	LaunchURL string `yaml:"-" mapstructure:"-"`
	BaseURL   string `yaml:"-" mapstructure:"-"`
}

// ViteDevServer holds the dev server options.
type ViteDevServer struct {
	// StartVite makes vitehook start and own the dev server (default: true)
	StartVite bool `yaml:"start_vite" mapstructure:"start_vite"`
	// Port is the port to start on or, when StartVite is false, the port to probe (default: 5173)
	Port int `yaml:"port" mapstructure:"port"`
	// HTTPS selects the https scheme for the probe and the generated URLs
	HTTPS bool `yaml:"https,omitempty" mapstructure:"https"`
	// Command starts the dev server; --port is appended (default: "npx vite")
	Command string `yaml:"command,omitempty" mapstructure:"command"`
	// Root is the working directory for Command (default: ".")
	Root string `yaml:"root,omitempty" mapstructure:"root"`
	// StartTimeout bounds the wait for the server to announce its port (default: 30s)
	StartTimeout time.Duration `yaml:"start_timeout,omitempty" mapstructure:"start_timeout"`
}

// MarshalYAML writes StartTimeout as a duration string such as "30s".
func (v ViteDevServer) MarshalYAML() (any, error) {
	out := struct {
		StartVite    bool   `yaml:"start_vite"`
		Port         int    `yaml:"port"`
		HTTPS        bool   `yaml:"https,omitempty"`
		Command      string `yaml:"command,omitempty"`
		Root         string `yaml:"root,omitempty"`
		StartTimeout string `yaml:"start_timeout,omitempty"`
	}{
		StartVite: v.StartVite,
		Port:      v.Port,
		HTTPS:     v.HTTPS,
		Command:   v.Command,
		Root:      v.Root,
	}
	if v.StartTimeout != 0 {
		out.StartTimeout = v.StartTimeout.String()
	}
	return out, nil
}

// LoggingConfig configures file-based logging.
// File logging is ENABLED by default.
type LoggingConfig struct {
	// FileEnabled enables logging to file (default: true)
	FileEnabled *bool `yaml:"file_enabled,omitempty" mapstructure:"file_enabled"`
	// MaxSizeMB is the max size in MB before rotation (default: 50)
	MaxSizeMB int `yaml:"max_size_mb,omitempty" mapstructure:"max_size_mb"`
	// MaxAgeDays is max days to retain old logs (default: 7)
	MaxAgeDays int `yaml:"max_age_days,omitempty" mapstructure:"max_age_days"`
	// MaxBackups is max number of old log files to keep (default: 3)
	MaxBackups int `yaml:"max_backups,omitempty" mapstructure:"max_backups"`
	// Compress enables gzip compression of rotated log files (default: false)
	Compress *bool `yaml:"compress,omitempty" mapstructure:"compress"`
}

// ServerConfig is the resolved view of the dev server options that the
// lifecycle controller and the starter consume.
type ServerConfig struct {
	ManageServer bool
	ExternalPort int
	UseTLS       bool
	Command      string
	Root         string
	StartTimeout time.Duration
}

// Scheme returns "https" when TLS is configured, otherwise "http".
func (c ServerConfig) Scheme() string {
	if c.UseTLS {
		return "https"
	}
	return "http"
}

// URL returns the localhost URL for port using the configured scheme.
func (c ServerConfig) URL(port int) string {
	return fmt.Sprintf("%s://localhost:%d", c.Scheme(), port)
}

// ServerConfig resolves the dev server options, filling zero values with defaults.
func (s *Settings) ServerConfig() ServerConfig {
	cfg := ServerConfig{
		ManageServer: s.ViteDevServer.StartVite,
		ExternalPort: s.ViteDevServer.Port,
		UseTLS:       s.ViteDevServer.HTTPS,
		Command:      s.ViteDevServer.Command,
		Root:         s.ViteDevServer.Root,
		StartTimeout: s.ViteDevServer.StartTimeout,
	}
	if cfg.ExternalPort <= 0 {
		cfg.ExternalPort = DefaultPort
	}
	if cfg.Command == "" {
		cfg.Command = DefaultCommand
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if cfg.StartTimeout <= 0 {
		cfg.StartTimeout = DefaultStartTimeout
	}
	return cfg
}

// SetServerURL records the resolved port and derives LaunchURL and BaseURL.
func (s *Settings) SetServerURL(port int) {
	s.ViteDevServer.Port = port
	s.LaunchURL = s.ServerConfig().URL(port)
	s.BaseURL = s.LaunchURL
}

// GetCacheDir returns the cache directory, defaulting to nightwatch/.cache.
func (s *Settings) GetCacheDir() string {
	if s.CacheDir == "" {
		return DefaultCacheDir
	}
	return s.CacheDir
}

// GetComponentType returns the component type, defaulting to react.
func (s *Settings) GetComponentType() string {
	if s.ComponentType == "" {
		return DefaultComponentType
	}
	return s.ComponentType
}

// IsFileEnabled returns whether file logging is enabled.
// Defaults to true if not explicitly set.
func (c *LoggingConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}
