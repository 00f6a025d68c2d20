package config

import (
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultPort is Vite's default dev server port.
	DefaultPort = 5173
	// DefaultCommand starts the Vite dev server from the project's node_modules.
	DefaultCommand = "npx vite"
	// DefaultStartTimeout bounds how long the starter waits for the port announcement.
	DefaultStartTimeout = 30 * time.Second
	// DefaultCacheDir is the test runner cache removed after each run.
	DefaultCacheDir = "nightwatch/.cache"
	// DefaultComponentType selects the React plugin.
	DefaultComponentType = "react"
)

// DefaultSettings returns Settings with the default values
func DefaultSettings() *Settings {
	return &Settings{
		ViteDevServer: ViteDevServer{
			StartVite:    true,
			Port:         DefaultPort,
			Command:      DefaultCommand,
			Root:         ".",
			StartTimeout: DefaultStartTimeout,
		},
		CacheDir:      DefaultCacheDir,
		ComponentType: DefaultComponentType,
	}
}

// DefaultSettingsYAML is the scaffold written by 'vitehook init'.
const DefaultSettingsYAML = `# vitehook configuration

vite_dev_server:
  # Start and own the Vite dev server (false = verify an already running server)
  start_vite: true
  # Port to start on, or the port of the externally managed server
  port: 5173
  # Use https when probing and building the launch URL
  https: false
  # Command used to start the dev server; --port is appended
  command: "npx vite"
  # How long to wait for the dev server to announce its port
  start_timeout: 30s

# Removed after every run
cache_dir: "nightwatch/.cache"

# Framework plugin declared in vite.config.js: react or vue
component_type: "react"

logging:
  # file_enabled: true
  # max_size_mb: 50
`

// ScaffoldYAML returns DefaultSettingsYAML with component_type set to componentType.
func ScaffoldYAML(componentType string) string {
	if componentType == "" {
		componentType = DefaultComponentType
	}
	return strings.Replace(DefaultSettingsYAML,
		"component_type: "+strconv.Quote(DefaultComponentType),
		"component_type: "+strconv.Quote(componentType), 1)
}
