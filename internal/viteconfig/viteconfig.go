// Package viteconfig renders the vite.config.js that loads the framework
// plugin together with vite-plugin-nightwatch-fixes.
package viteconfig

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/schmitthub/vitehook/internal/logger"
)

// FileName is the file written by WriteFile when given a directory.
const FileName = "vite.config.js"

//go:embed vite.config.js.tmpl
var configTemplate string

// Framework describes the Vite plugin for one component type.
type Framework struct {
	PluginImport  string
	PluginPackage string
	OptimizeDeps  []string
}

var frameworks = map[string]Framework{
	"react": {
		PluginImport:  "react",
		PluginPackage: "@vitejs/plugin-react",
		OptimizeDeps:  []string{"react", "react-dom/client"},
	},
	"vue": {
		PluginImport:  "vue",
		PluginPackage: "@vitejs/plugin-vue",
		OptimizeDeps:  []string{"vue"},
	},
}

// ErrFileExists is returned by WriteFile when the target exists and force is not set.
var ErrFileExists = errors.New("vite config already exists")

// Options selects what the generated config declares.
type Options struct {
	// ComponentType is passed to nightwatchPlugin and picks the framework plugin.
	ComponentType string
}

// ComponentTypes returns the supported component types, sorted.
func ComponentTypes() []string {
	types := make([]string, 0, len(frameworks))
	for t := range frameworks {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// UnsupportedComponentTypeError is returned for component types without a known plugin.
type UnsupportedComponentTypeError struct {
	ComponentType string
}

func (e *UnsupportedComponentTypeError) Error() string {
	return fmt.Sprintf("unsupported component type %q (supported: %s)",
		e.ComponentType, strings.Join(ComponentTypes(), ", "))
}

type templateData struct {
	Framework
	ComponentType string
}

var tmpl = template.Must(template.New(FileName).Funcs(template.FuncMap{
	"quoteList": quoteList,
}).Parse(configTemplate))

func quoteList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

// Render writes the vite.config.js for opts to w.
func Render(w io.Writer, opts Options) error {
	ct := strings.ToLower(strings.TrimSpace(opts.ComponentType))
	fw, ok := frameworks[ct]
	if !ok {
		return &UnsupportedComponentTypeError{ComponentType: opts.ComponentType}
	}

	if err := tmpl.Execute(w, templateData{Framework: fw, ComponentType: ct}); err != nil {
		return fmt.Errorf("failed to render %s: %w", FileName, err)
	}
	return nil
}

// WriteFile renders the config to path. An existing file is only replaced when
// force is set. If path is a directory, FileName is written inside it.
func WriteFile(path string, opts Options, force bool) (string, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	var buf bytes.Buffer
	if err := Render(&buf, opts); err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%w: %s", ErrFileExists, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Debug().Str("path", path).Str("component_type", opts.ComponentType).Msg("wrote vite config")
	return path, nil
}
