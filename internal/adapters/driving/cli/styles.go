package cli

import "github.com/charmbracelet/lipgloss"

// Terminal styles shared by the commands.
var (
	headingStyle = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)

	newStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	changedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	unchangedStyle = faintStyle
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// styledStatus renders a document status with its colour.
func styledStatus(status string) string {
	switch status {
	case "new":
		return newStyle.Render(status)
	case "changed":
		return changedStyle.Render(status)
	default:
		return unchangedStyle.Render(status)
	}
}
