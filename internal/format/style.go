package format

import "github.com/charmbracelet/lipgloss"

var (
	okStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	brokenStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// Status renders the resolution status of a handler.
func Status(broken bool) string {
	if broken {
		return brokenStyle.Render("BROKEN")
	}
	return okStyle.Render("OK")
}

// Muted renders secondary text such as empty values.
func Muted(s string) string {
	return mutedStyle.Render(s)
}

// Title renders a section heading.
func Title(s string) string {
	return titleStyle.Render(s)
}

// OrDash returns s, or a muted dash when s is empty.
func OrDash(s string) string {
	if s == "" {
		return Muted("-")
	}
	return s
}

// BoolMark returns "✓" for true and "✗" for false.
func BoolMark(v bool) string {
	if v {
		return "✓"
	}
	return "✗"
}
