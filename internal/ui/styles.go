package ui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	Accent    = lipgloss.Color("#E5A00D")
	DimGray   = lipgloss.Color("#6B7280")
	LightGray = lipgloss.Color("#9CA3AF")
	White     = lipgloss.Color("#F9FAFB")
	Green     = lipgloss.Color("#10B981")
	Red       = lipgloss.Color("#EF4444")
	Blue      = lipgloss.Color("#3B82F6")
)

// Text styles
var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(White).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	DimStyle = lipgloss.NewStyle().
			Foreground(DimGray)

	AccentStyle = lipgloss.NewStyle().
			Foreground(Accent)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	ActiveStyle = lipgloss.NewStyle().
			Foreground(Blue)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(White).
			Background(lipgloss.Color("#374151"))
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DimGray).
			Padding(0, 1)

	FocusedPanelStyle = PanelStyle.
				BorderForeground(Accent)
)
