package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"fbframes/pkg/uploader"
)

const maxLogLines = 8

// Messages sent from the upload run into the TUI
type (
	frameMsg uploader.Result
	batchMsg uploader.BatchResult
	doneMsg  uploader.Summary
)

// Model is the bubbletea model for a live upload run
type Model struct {
	spinner  spinner.Model
	progress progress.Model

	totalFrames int
	done        int
	failed      int
	posts       int
	current     string

	logLines []string
	finished bool
	summary  uploader.Summary

	width int
}

// NewModel creates a TUI model for a run of totalFrames
func NewModel(totalFrames int) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentCyan)

	p := progress.New(progress.WithDefaultGradient())
	p.Width = 40

	return Model{
		spinner:     s,
		progress:    p,
		totalFrames: totalFrames,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles TUI messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		updated, cmd := m.progress.Update(msg)
		m.progress = updated.(progress.Model)
		return m, cmd

	case frameMsg:
		m.done++
		m.current = msg.Num
		line := okStyle.Render("✓") + " frame " + msg.Num
		if msg.Action == uploader.ActionDryRun {
			line = dryRunStyle.Render("·") + " frame " + msg.Num + " (dry run)"
		} else if msg.Err != nil {
			m.failed++
			line = failStyle.Render("✗") + fmt.Sprintf(" frame %s: %v", msg.Num, msg.Err)
		}
		m.pushLog(line)
		return m, m.progress.SetPercent(float64(m.done) / float64(m.totalFrames))

	case batchMsg:
		if msg.Err != nil {
			m.pushLog(failStyle.Render("✗") + fmt.Sprintf(" batch %s: %v", msg.Range, msg.Err))
		} else {
			m.posts++
			m.pushLog(okStyle.Render("✓") + fmt.Sprintf(" batch %s → post %s", msg.Range, msg.PostID))
		}
		return m, nil

	case doneMsg:
		m.finished = true
		m.summary = uploader.Summary(msg)
		return m, nil
	}

	return m, nil
}

// pushLog appends a line to the rolling log window
func (m *Model) pushLog(line string) {
	m.logLines = append(m.logLines, line)
	if len(m.logLines) > maxLogLines {
		m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
	}
}
