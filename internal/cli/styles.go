package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorPurple = lipgloss.Color("#BD93F9")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorGray   = lipgloss.Color("#6272A4")
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPurple).
			Bold(true)

	categoryStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true).
			MarginTop(1)

	idStyle = lipgloss.NewStyle().
		Foreground(colorGreen).
		Width(36)

	subtleStyle = lipgloss.NewStyle().Foreground(colorGray)

	successStyle = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPurple).
			Padding(0, 1)
)

// swatchBlock renders a solid block in hex.
func swatchBlock(hex string) string {
	return lipgloss.NewStyle().
		Background(lipgloss.Color(hex)).
		Width(8).
		Render("")
}
