package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/mmprobe/internal/version"
)

// Application branding constants
const (
	AppName = "MMPROBE"
)

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Color palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF5555") // Red
	TextColor      = lipgloss.Color("#FFFFFF") // White
	SubtleColor    = lipgloss.Color("#626262") // Gray
)

// Common styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	HelpStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(1, 0, 0, 0)

	// Error and success lines are rendered independently so a stale value
	// stays visible next to a fresh one.
	ErrorLineStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	SuccessLineStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Bold(true)

	PendingLineStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(SubtleColor).
				Background(lipgloss.Color("#333333")).
				Padding(0, 2)

	FrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)
)

// header renders the app banner above every screen
func header(title, server string) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(AppName+" · "+title),
		SubtitleStyle.Render(server),
	)
}

func button(label string, enabled bool) string {
	if !enabled {
		return DisabledButtonStyle.Render(label)
	}
	return ButtonStyle.Render(label)
}
