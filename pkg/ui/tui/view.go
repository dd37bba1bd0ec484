package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the TUI
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("FBFRAMES frame sequence upload"))

	status := m.spinner.View() + " uploading"
	if m.finished {
		if m.summary.Clean() {
			status = okStyle.Render("✓ run complete")
		} else {
			status = failStyle.Render("✗ run finished with failures")
		}
	}

	stats := fmt.Sprintf("%s %d/%d   %s %d   %s %d",
		statLabelStyle.Render("frames"), m.done, m.totalFrames,
		statLabelStyle.Render("posts"), m.posts,
		statLabelStyle.Render("failed"), m.failed,
	)
	if m.current != "" {
		stats += fmt.Sprintf("   %s %s", statLabelStyle.Render("current"), m.current)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		status,
		"",
		m.progress.View(),
		"",
		stats,
	)
	sections = append(sections, panelStyle.Render(body))

	if len(m.logLines) > 0 {
		sections = append(sections, logStyle.Render(strings.Join(m.logLines, "\n")))
	}

	sections = append(sections, helpStyle.Render("press q to quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
