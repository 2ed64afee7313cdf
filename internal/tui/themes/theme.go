// Package themes holds the color palettes for the wine list editor.
package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the TUI.
type Theme struct {
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Normal        lipgloss.Style
	Bold          lipgloss.Style
	Selected      lipgloss.Style
	Header        lipgloss.Style
	Prompt        lipgloss.Style
	RoundedBox    lipgloss.Style
	StatusInfo    lipgloss.Style
	StatusError   lipgloss.Style
	StatusWarning lipgloss.Style
	StatusSuccess lipgloss.Style
	Primary       lipgloss.Color
	Muted         lipgloss.Color
	Border        lipgloss.Color
	Error         lipgloss.Color
	Warning       lipgloss.Color
	Success       lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#9b2335"),
	Success: lipgloss.Color("#10b981"),
	Warning: lipgloss.Color("#f59e0b"),
	Error:   lipgloss.Color("#ef4444"),
	Border:  lipgloss.Color("#404040"),
	Muted:   lipgloss.Color("#737373"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#9b2335")).
		Padding(0, 1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#9b2335")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	Header: lipgloss.NewStyle().
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(lipgloss.Color("#404040")),
	Prompt: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#e8a0ad")),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),

	StatusSuccess: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10b981")).
		Bold(true),
	StatusWarning: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f59e0b")).
		Bold(true),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#ef4444")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3b82f6")),
}

// Mono drops colors for terminals that can't show them.
var Mono = Theme{
	Title:         lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1),
	Subtitle:      lipgloss.NewStyle(),
	Normal:        lipgloss.NewStyle(),
	Bold:          lipgloss.NewStyle().Bold(true),
	Selected:      lipgloss.NewStyle().Reverse(true),
	Header:        lipgloss.NewStyle().Bold(true).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true),
	Prompt:        lipgloss.NewStyle().Bold(true),
	RoundedBox:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
	StatusInfo:    lipgloss.NewStyle(),
	StatusError:   lipgloss.NewStyle().Bold(true),
	StatusWarning: lipgloss.NewStyle().Bold(true),
	StatusSuccess: lipgloss.NewStyle(),
}
