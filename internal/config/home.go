package config

import (
	"os"
	"path/filepath"
)

const (
	// VitehookHomeEnv is the environment variable for the vitehook home directory
	VitehookHomeEnv = "VITEHOOK_HOME"
	// DefaultVitehookDir is the default directory name under user home
	DefaultVitehookDir = ".vitehook"
	// LogsSubdir is the subdirectory for log files
	LogsSubdir = "logs"
)

// VitehookHome returns the vitehook home directory.
// It checks VITEHOOK_HOME first, then defaults to ~/.vitehook
func VitehookHome() (string, error) {
	if home := os.Getenv(VitehookHomeEnv); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultVitehookDir), nil
}

// LogsDir returns the log directory (~/.vitehook/logs)
func LogsDir() (string, error) {
	home, err := VitehookHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, LogsSubdir), nil
}
