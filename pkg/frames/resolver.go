// Package frames resolves numbered frame files on disk. Frames follow a
// fixed naming convention (frame_0123.jpg by default); the resolver derives
// paths arithmetically and never scans the directory.
package frames

import (
	"fmt"
	"os"
	"path/filepath"
)

// Frame is one numbered image file in the sequence
type Frame struct {
	Number int
	Path   string
}

// Padded returns the zero-padded frame number as used in filenames and
// captions. Width matches the resolver that produced the frame.
func (f Frame) Padded(width int) string {
	return fmt.Sprintf("%0*d", width, f.Number)
}

// Exists reports whether the frame's file is present on disk
func (f Frame) Exists() bool {
	info, err := os.Stat(f.Path)
	return err == nil && !info.IsDir()
}

// Resolver derives frame file paths from frame numbers
type Resolver struct {
	Dir      string
	Prefix   string
	PadWidth int
	Ext      string
}

// NewResolver creates a resolver for the given frames directory using the
// conventional frame_XXXX.jpg naming.
func NewResolver(dir, prefix string, padWidth int, ext string) *Resolver {
	if prefix == "" {
		prefix = "frame_"
	}
	if padWidth <= 0 {
		padWidth = 4
	}
	if ext == "" {
		ext = "jpg"
	}
	return &Resolver{
		Dir:      dir,
		Prefix:   prefix,
		PadWidth: padWidth,
		Ext:      ext,
	}
}

// Path returns the canonical file path for a frame number
func (r *Resolver) Path(number int) string {
	name := fmt.Sprintf("%s%0*d.%s", r.Prefix, r.PadWidth, number, r.Ext)
	return filepath.Join(r.Dir, name)
}

// Resolve produces exactly count consecutive frames beginning at start.
// It fails only on invalid arguments; missing files are discovered later,
// per frame, so one absent file never aborts a run.
func (r *Resolver) Resolve(start, count int) ([]Frame, error) {
	if start < 0 {
		return nil, fmt.Errorf("start frame must be >= 0, got %d", start)
	}
	if count <= 0 {
		return nil, fmt.Errorf("frame count must be > 0, got %d", count)
	}

	result := make([]Frame, 0, count)
	for n := start; n < start+count; n++ {
		result = append(result, Frame{Number: n, Path: r.Path(n)})
	}
	return result, nil
}
