package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Validator validates Settings for correctness
type Validator struct {
	errors   []error
	warnings []string
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks the settings and returns all found issues
func (v *Validator) Validate(s *Settings) error {
	v.errors = []error{}
	v.warnings = []string{}

	v.validateDevServer(s)
	v.validateCacheDir(s)
	v.validateLogging(s)

	if len(v.errors) > 0 {
		return &MultiValidationError{Errors: v.errors}
	}
	return nil
}

// Warnings returns non-fatal findings from the last Validate call
func (v *Validator) Warnings() []string {
	return v.warnings
}

func (v *Validator) validateDevServer(s *Settings) {
	d := s.ViteDevServer
	if d.Port < 0 || d.Port > 65535 {
		v.addError("vite_dev_server.port", "must be between 1 and 65535", d.Port)
	}
	if d.StartTimeout < 0 {
		v.addError("vite_dev_server.start_timeout", "must not be negative", d.StartTimeout)
	}

	if !d.StartVite {
		if d.Command != "" && d.Command != DefaultCommand {
			v.addWarning("vite_dev_server.command", "ignored because start_vite is false")
		}
		return
	}

	args, err := shlex.Split(d.Command)
	switch {
	case err != nil:
		v.addError("vite_dev_server.command", "cannot be parsed: "+err.Error(), d.Command)
	case d.Command != "" && len(args) == 0:
		v.addError("vite_dev_server.command", "must not be blank", d.Command)
	}
	if d.HTTPS {
		v.addWarning("vite_dev_server.https", "the dev server must also be configured for https in vite.config.js")
	}
}

func (v *Validator) validateCacheDir(s *Settings) {
	dir := filepath.Clean(s.GetCacheDir())
	if dir == "." || dir == string(filepath.Separator) {
		v.addError("cache_dir", "refusing to remove the project or filesystem root", s.CacheDir)
		return
	}
	if filepath.IsAbs(dir) || strings.HasPrefix(dir, "..") {
		v.addWarning("cache_dir", fmt.Sprintf("%s is outside the project and is removed after every run", dir))
	}
}

func (v *Validator) validateLogging(s *Settings) {
	l := s.Logging
	if l.MaxSizeMB < 0 {
		v.addError("logging.max_size_mb", "must not be negative", l.MaxSizeMB)
	}
	if l.MaxAgeDays < 0 {
		v.addError("logging.max_age_days", "must not be negative", l.MaxAgeDays)
	}
	if l.MaxBackups < 0 {
		v.addError("logging.max_backups", "must not be negative", l.MaxBackups)
	}
}

func (v *Validator) addError(field, message string, value any) {
	v.errors = append(v.errors, &ValidationError{
		Field:   field,
		Message: message,
		Value:   value,
	})
}

func (v *Validator) addWarning(field, message string) {
	v.warnings = append(v.warnings, fmt.Sprintf("%s: %s", field, message))
}

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError holds multiple validation errors
type MultiValidationError struct {
	Errors []error
}

func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("found %d configuration errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidationErrors returns the individual errors
func (e *MultiValidationError) ValidationErrors() []error {
	return e.Errors
}
