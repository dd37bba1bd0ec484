package main

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"fbframes/pkg/config"
	"fbframes/pkg/facebook"
	"fbframes/pkg/frames"
	"fbframes/pkg/logger"
	"fbframes/pkg/runlog"
	"fbframes/pkg/ui"
	"fbframes/pkg/uploader"
)

var (
	configFile  = flag.String("config", "", "Path to configuration file")
	accessToken = flag.String("access-token", "", "Facebook Graph API access token")
	albumID     = flag.String("album", "", "Target album ID")
	framesDir   = flag.String("frames-dir", "", "Directory holding the frame images")
	loopCount   = flag.Int("loop", 40, "Number of consecutive frames to upload")
	multiPhoto  = flag.Int("multi-photo", 0, "Group frames into multi-photo posts of this size (1-4)")
	delay       = flag.Duration("delay", 2*time.Second, "Pause between consecutive uploads")
	dryRun      = flag.Bool("dry-run", false, "Log what would be uploaded without making any network calls")
)

func main() {
	flag.Parse()

	// Show ASCII logo
	ui.PrintLogo()

	// Get start frame from args
	args := flag.Args()
	if len(args) != 1 {
		ui.PrintError("Usage: fbframes [flags] <start_frame>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	start, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || start < 0 {
		ui.PrintError("Start frame must be a non-negative number", args[0])
		os.Exit(1)
	}
	ui.PrintInfo("Start frame", args[0])

	if *multiPhoto != 0 && (*multiPhoto < 1 || *multiPhoto > facebook.MaxPhotosPerPost) {
		ui.PrintError("Invalid multi-photo value", *multiPhoto)
		os.Exit(1)
	}

	// Build command line flags map
	flags := make(map[string]interface{})
	if *accessToken != "" {
		flags["access-token"] = *accessToken
	}
	if *albumID != "" {
		flags["album"] = *albumID
	}
	if *framesDir != "" {
		flags["frames-dir"] = *framesDir
	}
	if *delay != 2*time.Second {
		flags["delay"] = *delay
	}

	// Load configuration
	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Initialize(&cfg.Logging); err != nil {
		ui.PrintError("Failed to initialize logging", err.Error())
		os.Exit(1)
	}
	logger.Info("fbframes starting")

	// Validate credentials
	if cfg.Facebook.AccessToken == "" && !*dryRun {
		logger.Error("Missing Facebook access token")
		ui.PrintError("Missing Facebook access token", "Provide via --access-token flag or FBFRAMES_ACCESS_TOKEN env var")
		os.Exit(1)
	}

	if *dryRun {
		ui.PrintWarning("DRY RUN: no posts will be created")
	}

	resolver := frames.NewResolver(cfg.Upload.FramesDirectory, cfg.Upload.FramePrefix, cfg.Upload.PadWidth, cfg.Upload.FrameExtension)
	client := facebook.NewClient(cfg.Facebook.AccessToken, cfg.Facebook.APIVersion, cfg.Facebook.Timeout, logger.GetLogger())

	up, err := uploader.New(client, resolver, uploader.Config{
		Start:           start,
		Count:           *loopCount,
		MultiPhoto:      *multiPhoto,
		AlbumID:         cfg.Facebook.AlbumID,
		DryRun:          *dryRun,
		RemoveUploaded:  cfg.Upload.RemoveUploaded,
		Delay:           cfg.Upload.Delay,
		CaptionTemplate: cfg.Upload.CaptionTemplate,
	}, logger.GetLogger())
	if err != nil {
		ui.PrintError("Invalid upload parameters", err.Error())
		os.Exit(1)
	}

	log, err := runlog.New(cfg.Upload.RunLogFile)
	if err != nil {
		ui.PrintError("Failed to open run log", err.Error())
		os.Exit(1)
	}
	defer log.Close()
	up.AddObserver(log)
	up.AddObserver(ui.NewProgressDisplay(*loopCount))

	ui.PrintHighlight("[STARTING FRAME UPLOAD RUN]")

	summary, err := up.Run()
	if err != nil {
		logger.WithError(err).Error("Upload run failed")
		ui.PrintError("UPLOAD RUN FAILED", err.Error())
		os.Exit(1)
	}

	if !summary.Clean() {
		logger.WithField("failed", summary.FramesFailed).Warn("Upload run finished with failures")
		os.Exit(2)
	}

	logger.Info("Upload run completed successfully")
	ui.PrintSuccess("[UPLOAD RUN COMPLETED SUCCESSFULLY]")
}
