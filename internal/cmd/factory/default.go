package factory

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/schmitthub/vitehook/internal/cache"
	"github.com/schmitthub/vitehook/internal/cmdutil"
	"github.com/schmitthub/vitehook/internal/config"
	"github.com/schmitthub/vitehook/internal/devserver"
	"github.com/schmitthub/vitehook/internal/iostreams"
	"github.com/schmitthub/vitehook/internal/lifecycle"
	"github.com/schmitthub/vitehook/internal/logger"
	"github.com/schmitthub/vitehook/internal/probe"
	"github.com/schmitthub/vitehook/internal/prompter"
)

// New creates a fully-wired Factory with lazy-initialized dependency closures.
// Called exactly once at the CLI entry point (internal/vitehook/cmd.go).
// Tests should NOT import this package; construct &cmdutil.Factory{} directly.
func New(version, commit string) *cmdutil.Factory {
	ios := iostreams.NewIOStreams()
	ios.Logger = &logger.Log

	if !ios.IsStderrTTY() || os.Getenv("NO_COLOR") != "" {
		ios.SetColorEnabled(false)
	}
	if os.Getenv("CI") != "" {
		ios.SetSpinnerDisabled(true)
	}

	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	f := &cmdutil.Factory{
		WorkDir:   wd,
		Version:   version,
		Commit:    commit,
		IOStreams: ios,
	}

	// Config
	var (
		loaderOnce   sync.Once
		loader       *config.Loader
		settingsOnce sync.Once
		settings     *config.Settings
		settingsErr  error
	)
	f.ConfigLoader = func() *config.Loader {
		loaderOnce.Do(func() {
			if f.ConfigFile != "" {
				loader = config.NewLoaderWithPath(f.ConfigFile)
				return
			}
			loader = config.NewLoader(f.WorkDir)
		})
		return loader
	}
	f.Settings = func() (*config.Settings, error) {
		settingsOnce.Do(func() {
			settings, settingsErr = f.ConfigLoader().Load()
		})
		return settings, settingsErr
	}

	// Dev server
	f.Starter = func() devserver.Starter {
		return devserver.NewProcessStarter()
	}
	f.Prober = func() probe.Prober {
		return probe.New()
	}

	f.Prompter = func() *prompter.Prompter {
		return prompter.NewPrompter(f.IOStreams)
	}

	// Relative paths in settings are resolved against the project directory.
	f.Controller = func(s *config.Settings) *lifecycle.Controller {
		if root := s.ViteDevServer.Root; !filepath.IsAbs(root) {
			s.ViteDevServer.Root = filepath.Join(f.WorkDir, root)
		}
		cacheDir := s.GetCacheDir()
		if !filepath.IsAbs(cacheDir) {
			cacheDir = filepath.Join(f.WorkDir, cacheDir)
		}
		return lifecycle.New(f.Starter(), f.Prober(), cache.NewCleaner(cacheDir))
	}

	return f
}
