package iostreams

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// ColorScheme provides terminal color formatting.
// When colors are disabled, methods return the input string unmodified.
type ColorScheme struct {
	enabled bool
}

// NewColorScheme creates a new ColorScheme.
func NewColorScheme(enabled bool) *ColorScheme {
	return &ColorScheme{enabled: enabled}
}

// Enabled returns whether colors are enabled.
func (cs *ColorScheme) Enabled() bool {
	return cs.enabled
}

func (cs *ColorScheme) render(style lipgloss.Style, s string) string {
	if !cs.enabled {
		return s
	}
	return style.Render(s)
}

// Red returns the string in the error color.
func (cs *ColorScheme) Red(s string) string { return cs.render(ErrorStyle, s) }

// Green returns the string in the success color.
func (cs *ColorScheme) Green(s string) string { return cs.render(SuccessStyle, s) }

// Yellow returns the string in the warning color.
func (cs *ColorScheme) Yellow(s string) string { return cs.render(WarningStyle, s) }

// Cyan returns the string in the info color.
func (cs *ColorScheme) Cyan(s string) string { return cs.render(CyanStyle, s) }

// Muted returns the string in gray.
func (cs *ColorScheme) Muted(s string) string { return cs.render(MutedStyle, s) }

// Bold returns the string in bold.
func (cs *ColorScheme) Bold(s string) string { return cs.render(BoldStyle, s) }

// Boldf returns a formatted string in bold.
func (cs *ColorScheme) Boldf(format string, a ...any) string {
	return cs.Bold(fmt.Sprintf(format, a...))
}

// SuccessIconWithColor returns a success indicator with custom text.
// With colors: green ✓ text. Without colors: [ok] text
func (cs *ColorScheme) SuccessIconWithColor(text string) string {
	if cs.enabled {
		return cs.Green("✓ " + text)
	}
	return "[ok] " + text
}

// WarningIconWithColor returns a warning indicator with custom text.
func (cs *ColorScheme) WarningIconWithColor(text string) string {
	if cs.enabled {
		return cs.Yellow("! " + text)
	}
	return "[warn] " + text
}

// FailureIconWithColor returns a failure indicator with custom text.
func (cs *ColorScheme) FailureIconWithColor(text string) string {
	if cs.enabled {
		return cs.Red("✗ " + text)
	}
	return "[error] " + text
}

// InfoIconWithColor returns an info indicator with custom text.
func (cs *ColorScheme) InfoIconWithColor(text string) string {
	if cs.enabled {
		return cs.Cyan("ℹ " + text)
	}
	return "[info] " + text
}
