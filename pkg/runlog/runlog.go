// Package runlog writes the append-only run log: one human-readable line
// per frame attempt and one per multi-photo batch outcome. The line format
// is not a compatibility surface.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fbframes/pkg/uploader"
)

// Writer appends run outcomes to a text log file. It implements
// uploader.Observer.
type Writer struct {
	mu   sync.Mutex
	file *os.File
	now  func() time.Time
}

// New opens (or creates) the run log for appending
func New(path string) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create run log directory: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log: %w", err)
	}

	return &Writer{file: file, now: time.Now}, nil
}

// FrameDone records one per-frame outcome
func (w *Writer) FrameDone(r uploader.Result) {
	switch {
	case r.Action == uploader.ActionDryRun:
		w.writeLine("frame %s dry-run OK (no request sent)", r.Num)
	case r.OK() && r.MediaID != "":
		w.writeLine("frame %s %s OK media=%s", r.Num, r.Action, r.MediaID)
	case r.OK():
		w.writeLine("frame %s %s OK", r.Num, r.Action)
	default:
		w.writeLine("frame %s %s FAIL: %v", r.Num, r.Action, r.Err)
	}
}

// BatchDone records one multi-photo batch outcome
func (w *Writer) BatchDone(b uploader.BatchResult) {
	switch {
	case b.DryRun:
		w.writeLine("batch %s compose dry-run OK (%d photos, no request sent)", b.Range, b.Size)
	case b.OK():
		w.writeLine("batch %s compose OK post=%s (%d photos)", b.Range, b.PostID, len(b.MediaIDs))
	default:
		w.writeLine("batch %s compose FAIL: %v", b.Range, b.Err)
	}
}

// RunDone records the run summary
func (w *Writer) RunDone(s uploader.Summary) {
	w.writeLine("run done: %d/%d frames succeeded, %d failed, %d posts created",
		s.FramesSucceeded, s.FramesAttempted, s.FramesFailed, s.PostsCreated)
}

// Close flushes and closes the underlying file
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Writer) writeLine(format string, args ...interface{}) {
	w.mu.Lock()
	defer w.mu.Unlock()
	line := fmt.Sprintf("%s %s\n", w.now().Format(time.RFC3339), fmt.Sprintf(format, args...))
	// Log writes must never fail the run; a short write here is dropped
	_, _ = w.file.WriteString(line)
}
