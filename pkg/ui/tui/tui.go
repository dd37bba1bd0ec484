// Package tui provides an optional live terminal UI for upload runs,
// enabled with --tui. It implements uploader.Observer, so the orchestrator
// feeds it the same events as the plain progress display.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"fbframes/pkg/uploader"
)

// TUI wraps the bubbletea program for one upload run
type TUI struct {
	program *tea.Program
}

// New creates a TUI for a run of totalFrames
func New(totalFrames int) *TUI {
	model := NewModel(totalFrames)
	return &TUI{program: tea.NewProgram(model, tea.WithAltScreen())}
}

// Start runs the TUI; it blocks until the program exits
func (t *TUI) Start() error {
	_, err := t.program.Run()
	return err
}

// Stop shuts the TUI down gracefully
func (t *TUI) Stop() {
	t.program.Quit()
}

// FrameDone forwards a frame outcome to the TUI
func (t *TUI) FrameDone(r uploader.Result) {
	t.program.Send(frameMsg(r))
}

// BatchDone forwards a batch outcome to the TUI
func (t *TUI) BatchDone(b uploader.BatchResult) {
	t.program.Send(batchMsg(b))
}

// RunDone forwards the run summary to the TUI
func (t *TUI) RunDone(s uploader.Summary) {
	t.program.Send(doneMsg(s))
}
