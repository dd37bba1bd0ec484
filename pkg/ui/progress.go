package ui

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"fbframes/pkg/uploader"
)

// ProgressDisplay renders a single-line progress bar for an upload run.
// It implements uploader.Observer and is safe for sequential use; the
// mutex guards against a TUI or signal handler touching it concurrently.
type ProgressDisplay struct {
	mu          sync.Mutex
	totalFrames int
	done        int
	failed      int
	posts       int
	current     string
	startTime   time.Time
	enabled     bool
}

// NewProgressDisplay creates a progress display for a run of totalFrames
func NewProgressDisplay(totalFrames int) *ProgressDisplay {
	return &ProgressDisplay{
		totalFrames: totalFrames,
		startTime:   time.Now(),
		enabled:     !IsQuietMode(),
	}
}

// FrameDone updates the display after one frame outcome
func (p *ProgressDisplay) FrameDone(r uploader.Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	p.current = r.Num
	if !r.OK() {
		p.failed++
	}
	p.print()
}

// BatchDone updates the display after one batch outcome
func (p *ProgressDisplay) BatchDone(b uploader.BatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if b.OK() {
		p.posts++
	}
	p.print()
}

// RunDone finishes the progress line and prints the summary
func (p *ProgressDisplay) RunDone(s uploader.Summary) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.enabled {
		return
	}

	fmt.Println()
	if s.Clean() {
		fmt.Printf("%s %d/%d frames uploaded, %d post(s) created\n",
			Green("✓"), s.FramesSucceeded, s.FramesAttempted, s.PostsCreated)
	} else {
		fmt.Printf("%s %d/%d frames uploaded, %d failed, %d batch failure(s)\n",
			Red("✗"), s.FramesSucceeded, s.FramesAttempted, s.FramesFailed, s.BatchesFailed)
	}
}

// print redraws the progress line in place
func (p *ProgressDisplay) print() {
	if !p.enabled || p.totalFrames == 0 {
		return
	}

	progress := float64(p.done) / float64(p.totalFrames)
	const barWidth = 20
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	rate := float64(p.done) / time.Since(p.startTime).Minutes()

	line := fmt.Sprintf("\r[%s] %d/%d • %.1f/min", bar, p.done, p.totalFrames, rate)
	if p.current != "" {
		line += fmt.Sprintf(" • frame %s", p.current)
	}
	if p.failed > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d failed", p.failed)))
	}

	fmt.Printf("\r%s\r%s", strings.Repeat(" ", 100), line)
}
