package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestServerConfigDefaults(t *testing.T) {
	s := &Settings{}
	cfg := s.ServerConfig()

	assert.False(t, cfg.ManageServer)
	assert.Equal(t, DefaultPort, cfg.ExternalPort)
	assert.Equal(t, DefaultCommand, cfg.Command)
	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, DefaultStartTimeout, cfg.StartTimeout)
	assert.Equal(t, "http", cfg.Scheme())
}

func TestServerConfigFromSettings(t *testing.T) {
	s := DefaultSettings()
	s.ViteDevServer.Port = 8080
	s.ViteDevServer.HTTPS = true
	s.ViteDevServer.StartTimeout = time.Second

	cfg := s.ServerConfig()
	assert.True(t, cfg.ManageServer)
	assert.Equal(t, 8080, cfg.ExternalPort)
	assert.True(t, cfg.UseTLS)
	assert.Equal(t, "https", cfg.Scheme())
	assert.Equal(t, time.Second, cfg.StartTimeout)
	assert.Equal(t, "https://localhost:9000", cfg.URL(9000))
}

func TestSetServerURL(t *testing.T) {
	tests := []struct {
		name  string
		https bool
		port  int
		want  string
	}{
		{name: "http", port: 5174, want: "http://localhost:5174"},
		{name: "https", https: true, port: 5173, want: "https://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.ViteDevServer.HTTPS = tt.https

			s.SetServerURL(tt.port)

			assert.Equal(t, tt.port, s.ViteDevServer.Port)
			assert.Equal(t, tt.want, s.LaunchURL)
			assert.Equal(t, tt.want, s.BaseURL)
		})
	}
}

func TestSettingsGetters(t *testing.T) {
	s := &Settings{}
	assert.Equal(t, DefaultCacheDir, s.GetCacheDir())
	assert.Equal(t, DefaultComponentType, s.GetComponentType())

	s.CacheDir = "other"
	s.ComponentType = "vue"
	assert.Equal(t, "other", s.GetCacheDir())
	assert.Equal(t, "vue", s.GetComponentType())
}

func TestViteDevServerMarshalYAML(t *testing.T) {
	data, err := yaml.Marshal(DefaultSettings())
	require.NoError(t, err)

	assert.Contains(t, string(data), "start_timeout: 30s")
	assert.Contains(t, string(data), "start_vite: true")
	assert.Contains(t, string(data), "port: 5173")
	assert.NotContains(t, string(data), "https")
}
