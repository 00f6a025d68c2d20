package viteconfig

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reactConfig = `import react from '@vitejs/plugin-react';
import nightwatchPlugin from 'vite-plugin-nightwatch-fixes';

export default {
  optimizeDeps: {
    include: ['react', 'react-dom/client']
  },
  plugins: [
    react(),
    nightwatchPlugin({
      componentType: 'react'
    })
  ]
};
`

func TestRenderReact(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Options{ComponentType: "react"}))
	assert.Equal(t, reactConfig, buf.String())
}

func TestRenderVue(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, Options{ComponentType: "Vue"}))

	out := buf.String()
	assert.Contains(t, out, "import vue from '@vitejs/plugin-vue';")
	assert.Contains(t, out, "include: ['vue']")
	assert.Contains(t, out, "    vue(),")
	assert.Contains(t, out, "componentType: 'vue'")
}

func TestRenderUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, Options{ComponentType: "svelte"})
	require.Error(t, err)

	var ute *UnsupportedComponentTypeError
	require.True(t, errors.As(err, &ute))
	assert.Equal(t, "svelte", ute.ComponentType)
	assert.Contains(t, err.Error(), "react, vue")
	assert.Zero(t, buf.Len())
}

func TestComponentTypes(t *testing.T) {
	assert.Equal(t, []string{"react", "vue"}, ComponentTypes())
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteFile(dir, Options{ComponentType: "react"}, false)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, reactConfig, string(data))
}

func TestWriteFileRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("// mine\n"), 0o644))

	_, err := WriteFile(path, Options{ComponentType: "react"}, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileExists))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "// mine\n", string(data))
}

func TestWriteFileForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "web", FileName)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("// mine\n"), 0o644))

	_, err := WriteFile(path, Options{ComponentType: "vue"}, true)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "@vitejs/plugin-vue")
}

func TestWriteFileUnsupportedLeavesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	_, err := WriteFile(path, Options{ComponentType: "angular"}, false)
	require.Error(t, err)
	assert.NoFileExists(t, path)
}
