// Package configtest provides Settings builders for tests.
package configtest

import "github.com/schmitthub/vitehook/internal/config"

// Managed returns default settings with start_vite enabled.
func Managed() *config.Settings {
	return config.DefaultSettings()
}

// External returns settings for an externally managed server on port.
func External(port int, https bool) *config.Settings {
	s := config.DefaultSettings()
	s.ViteDevServer.StartVite = false
	s.ViteDevServer.Port = port
	s.ViteDevServer.HTTPS = https
	return s
}

// WithCacheDir sets the cache directory and returns s.
func WithCacheDir(s *config.Settings, dir string) *config.Settings {
	s.CacheDir = dir
	return s
}
