// Package extract turns a video file into the numbered frame images the
// uploader consumes, by shelling out to ffmpeg.
package extract

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"fbframes/pkg/logger"
)

// Default extraction settings
const (
	DefaultFrameRate  = 2
	DefaultQuality    = 3
	DefaultFFmpegPath = "ffmpeg"
)

// Config holds the settings for one extraction run
type Config struct {
	// VideoPath is the source video file
	VideoPath string

	// OutputDir receives the numbered frame images
	OutputDir string

	// FrameRate is the number of frames extracted per second of video
	FrameRate int

	// Quality is the JPEG quality passed to ffmpeg -q:v (1 best, 31 worst)
	Quality int

	// FramePrefix, PadWidth and OutputFormat define the output file names,
	// e.g. frame_0001.jpg for "frame_", 4, "jpg"
	FramePrefix  string
	PadWidth     int
	OutputFormat string

	// FFmpegPath is the ffmpeg binary; a bare name is resolved via PATH
	FFmpegPath string
}

// Validate checks the configuration and applies defaults for zero values
func (c *Config) Validate() error {
	if c.VideoPath == "" {
		return errors.New("video path is required")
	}
	if c.OutputDir == "" {
		return errors.New("output directory is required")
	}
	if c.FrameRate == 0 {
		c.FrameRate = DefaultFrameRate
	}
	if c.FrameRate < 0 {
		return errors.New("frame rate must be positive")
	}
	if c.Quality == 0 {
		c.Quality = DefaultQuality
	}
	if c.Quality < 1 || c.Quality > 31 {
		return errors.New("quality must be between 1 and 31")
	}
	if c.FramePrefix == "" {
		c.FramePrefix = "frame_"
	}
	if c.PadWidth <= 0 {
		c.PadWidth = 4
	}
	if c.OutputFormat == "" {
		c.OutputFormat = "jpg"
	}
	if c.FFmpegPath == "" {
		c.FFmpegPath = DefaultFFmpegPath
	}
	return nil
}

// Extractor runs ffmpeg to split a video into numbered frame images
type Extractor struct {
	cfg Config
	log logger.Logger
}

// New creates an Extractor for the given configuration
func New(cfg Config, log logger.Logger) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid extraction config: %w", err)
	}
	return &Extractor{cfg: cfg, log: log}, nil
}

// OutputPattern returns the ffmpeg output file pattern, e.g.
// ./frames/frame_%04d.jpg
func (e *Extractor) OutputPattern() string {
	name := fmt.Sprintf("%s%%0%dd.%s", e.cfg.FramePrefix, e.cfg.PadWidth, e.cfg.OutputFormat)
	return filepath.Join(e.cfg.OutputDir, name)
}

// args builds the ffmpeg argument list
func (e *Extractor) args() []string {
	return []string{
		"-i", e.cfg.VideoPath,
		"-vf", fmt.Sprintf("fps=%d", e.cfg.FrameRate),
		"-q:v", strconv.Itoa(e.cfg.Quality),
		"-progress", "pipe:1",
		e.OutputPattern(),
	}
}

// Run extracts the frames. Progress lines reported by ffmpeg are logged as
// they arrive; the run blocks until ffmpeg exits.
func (e *Extractor) Run() error {
	if _, err := os.Stat(e.cfg.VideoPath); err != nil {
		return fmt.Errorf("video file not found: %s", e.cfg.VideoPath)
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	e.log.WithFields(map[string]interface{}{
		"video":      e.cfg.VideoPath,
		"output":     e.OutputPattern(),
		"frame_rate": e.cfg.FrameRate,
	}).Info("Starting frame extraction")

	cmd := exec.Command(e.cfg.FFmpegPath, e.args()...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to attach to ffmpeg output: %w", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("ffmpeg not found at %q: install ffmpeg or set the ffmpeg_path config key", e.cfg.FFmpegPath)
		}
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	// ffmpeg -progress emits key=value lines; the frame counter is the one
	// worth surfacing
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "frame=") {
			e.log.WithField("progress", line).Debug("Extraction progress")
		}
	}

	if err := cmd.Wait(); err != nil {
		detail := lastLine(stderr.String())
		if detail != "" {
			return fmt.Errorf("ffmpeg failed: %w: %s", err, detail)
		}
		return fmt.Errorf("ffmpeg failed: %w", err)
	}

	e.log.Info("Frame extraction completed")
	return nil
}

// lastLine returns the last non-empty line of s, ffmpeg puts its fatal
// message there
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
