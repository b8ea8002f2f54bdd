// ABOUTME: Shared lipgloss styles for consistent TUI appearance
// ABOUTME: Defines colors and text styles used across the map screens

package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Colors - Core palette
	Primary   = lipgloss.Color("#059669") // Emerald, the geocaching green
	Secondary = lipgloss.Color("#10B981") // Lighter green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB") // Light
	Water     = lipgloss.Color("#1E3A5F") // Deep blue map background
	Accent    = lipgloss.Color("#34D399") // Highlights

	// Base styles
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	// Status indicators
	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	StatusError = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	// Map layers
	Graticule = lipgloss.NewStyle().
			Foreground(Muted)

	RegionFill = lipgloss.NewStyle().
			Foreground(Primary)

	PreviewRect = lipgloss.NewStyle().
			Foreground(Warning)

	Marker = lipgloss.NewStyle().
		Foreground(Accent).
		Bold(true)

	HomeMarker = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	Crosshair = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Help text
	Help = lipgloss.NewStyle().
		Foreground(Muted)

	// Key style for keyboard shortcuts
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	// Value style for emphasized data
	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)
)
