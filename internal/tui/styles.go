package tui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorAmber   = lipgloss.Color("#FFB000")
	ColorGreen   = lipgloss.Color("#33FF33")
	ColorYellow  = lipgloss.Color("#FFFF00")
	ColorRed     = lipgloss.Color("#FF3333")
	ColorCyan    = lipgloss.Color("#00FFFF")
	ColorGray    = lipgloss.Color("#666666")
	ColorDimGray = lipgloss.Color("#444444")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAmber)

	RecordingDotStyle = lipgloss.NewStyle().
				Foreground(ColorRed).
				Bold(true)

	IdleDotStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	TimerStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	TimerYellowStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	TimerRedStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			Blink(true)

	TranscriptStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	InterimStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	MessageStyle = lipgloss.NewStyle().
			Foreground(ColorCyan)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorAmber).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	SignalLowStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	SignalMediumStyle = lipgloss.NewStyle().
				Foreground(ColorYellow)

	SignalHighStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	SignalOffStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)
)
