package iostreams

import "github.com/charmbracelet/lipgloss"

var (
	ColorEmerald = lipgloss.Color("#04B575")
	ColorAmber   = lipgloss.Color("#FFCC00")
	ColorHotPink = lipgloss.Color("#FF5F87")
	ColorDimGray = lipgloss.Color("#626262")
	ColorSkyBlue = lipgloss.Color("#87CEEB")
)

var (
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorHotPink)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorEmerald)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorAmber)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorDimGray)
	CyanStyle    = lipgloss.NewStyle().Foreground(ColorSkyBlue)
	BoldStyle    = lipgloss.NewStyle().Bold(true)
)
