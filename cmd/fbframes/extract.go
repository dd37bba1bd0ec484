package main

import (
	"os"

	"github.com/spf13/cobra"
	"fbframes/pkg/config"
	"fbframes/pkg/extract"
	"fbframes/pkg/logger"
	"fbframes/pkg/ui"
)

var (
	// Extract command flags
	extractOutputDir string
	extractFrameRate int
	extractQuality   int
	ffmpegPath       string
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <video>",
	Short: "Extract numbered frames from a video with ffmpeg",
	Long: `Extract still frames from a video file using ffmpeg.

Frames are written into the frames directory using the configured naming
scheme (frame_0001.jpg and so on), so an extraction followed by
'fbframes upload --start 1' works without further setup.

ffmpeg must be installed. A custom binary location can be set with the
--ffmpeg flag or the extract.ffmpeg_path config key.`,
	Example: `  # Extract 2 frames per second into ./frames
  fbframes extract movie.mp4

  # One frame per second, into a custom directory
  fbframes extract movie.mp4 --fps 1 --output-dir ./night-of-the-hunter`,
	Args: cobra.ExactArgs(1),
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractOutputDir, "output-dir", "o", "", "directory receiving the frame images (default: the frames directory)")
	extractCmd.Flags().IntVar(&extractFrameRate, "fps", 0, "frames extracted per second of video")
	extractCmd.Flags().IntVar(&extractQuality, "quality", 0, "JPEG quality for ffmpeg -q:v, 1 best to 31 worst")
	extractCmd.Flags().StringVar(&ffmpegPath, "ffmpeg", "", "path of the ffmpeg binary")
}

func runExtract(cmd *cobra.Command, args []string) {
	// Build flags map from command line
	flags := make(map[string]interface{})
	if extractOutputDir != "" {
		flags["frames-dir"] = extractOutputDir
	}
	if extractFrameRate != 0 {
		flags["fps"] = extractFrameRate
	}
	if extractQuality != 0 {
		flags["quality"] = extractQuality
	}
	if ffmpegPath != "" {
		flags["ffmpeg"] = ffmpegPath
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}

	extractor, err := extract.New(extract.Config{
		VideoPath:    args[0],
		OutputDir:    cfg.Upload.FramesDirectory,
		FrameRate:    cfg.Extract.FrameRate,
		Quality:      cfg.Extract.Quality,
		FramePrefix:  cfg.Upload.FramePrefix,
		PadWidth:     cfg.Upload.PadWidth,
		OutputFormat: cfg.Upload.FrameExtension,
		FFmpegPath:   cfg.Extract.FFmpegPath,
	}, logger.GetLogger())
	if err != nil {
		ui.PrintError("Invalid extraction parameters", err.Error())
		os.Exit(1)
	}

	ui.PrintInfo("Video", args[0])
	ui.PrintInfo("Output", extractor.OutputPattern())
	ui.PrintHighlight("[STARTING FRAME EXTRACTION]")

	if err := extractor.Run(); err != nil {
		logger.WithError(err).Error("Frame extraction failed")
		ui.PrintError("FRAME EXTRACTION FAILED", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("[FRAME EXTRACTION COMPLETED]")
	logger.Info("Frame extraction completed successfully")
}
