package tui

import "github.com/charmbracelet/lipgloss"

var (
	accentCyan  = lipgloss.Color("#00FFFF")
	accentGreen = lipgloss.Color("#39FF14")
	accentRed   = lipgloss.Color("#FF5555")
	accentGold  = lipgloss.Color("#FFD700")
	dimGray     = lipgloss.Color("#666666")

	titleStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentCyan).
			Padding(0, 2)

	statLabelStyle = lipgloss.NewStyle().
			Foreground(accentCyan).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(accentGreen)

	failStyle = lipgloss.NewStyle().
			Foreground(accentRed)

	dryRunStyle = lipgloss.NewStyle().
			Foreground(accentGold)

	logStyle = lipgloss.NewStyle().
			Foreground(dimGray)

	helpStyle = lipgloss.NewStyle().
			Foreground(dimGray).
			Padding(1, 0, 0, 1)
)
