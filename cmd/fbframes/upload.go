package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"fbframes/pkg/auth"
	"fbframes/pkg/config"
	"fbframes/pkg/facebook"
	"fbframes/pkg/frames"
	"fbframes/pkg/logger"
	"fbframes/pkg/runlog"
	"fbframes/pkg/ui"
	"fbframes/pkg/ui/tui"
	"fbframes/pkg/uploader"
)

var (
	// Upload command flags
	startFrame     int
	loopCount      int
	multiPhoto     int
	albumID        string
	framesDir      string
	captionTmpl    string
	uploadDelay    time.Duration
	accessToken    string
	tokenProfile   string
	dryRun         bool
	removeUploaded bool
	runLogPath     string
	useTUI         bool
)

// uploadCmd represents the upload command
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a sequence of numbered frames",
	Long: `Upload a consecutive run of numbered frame images as Facebook posts.

Frames are resolved from the frames directory by zero-padded number, e.g.
frame_0100.jpg. Each frame becomes one post, or with --multi-photo the run
is grouped into album posts of up to 4 photos each.

An access token is required unless --dry-run is set. Tokens can come from:
  - Stored credentials (use 'fbframes auth login' to store)
  - The FBFRAMES_ACCESS_TOKEN environment variable
  - Configuration file or the --access-token flag`,
	Example: `  # Upload 40 frames starting at frame 100
  fbframes upload --start 100

  # Upload 12 frames grouped into 3-photo album posts
  fbframes upload --start 100 --loop 12 --multi-photo 3 --album 123456789

  # See what would happen without touching the network
  fbframes upload --start 100 --dry-run

  # Custom caption and slower pacing
  fbframes upload --start 100 --caption "Night of the Hunter - frame {num}" --delay 5s`,
	Args: cobra.NoArgs,
	Run:  runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().IntVarP(&startFrame, "start", "s", 0, "first frame number of the run (required)")
	uploadCmd.Flags().IntVarP(&loopCount, "loop", "l", 40, "number of consecutive frames to upload")
	uploadCmd.Flags().IntVarP(&multiPhoto, "multi-photo", "m", 0, "group frames into multi-photo posts of this size (1-4)")
	uploadCmd.Flags().StringVarP(&albumID, "album", "a", "", "target album ID (default: the user's timeline)")
	uploadCmd.Flags().StringVarP(&framesDir, "frames-dir", "d", "", "directory holding the frame images")
	uploadCmd.Flags().StringVar(&captionTmpl, "caption", "", "caption template; {num} is replaced with the frame number")
	uploadCmd.Flags().DurationVar(&uploadDelay, "delay", 2*time.Second, "pause between consecutive uploads")
	uploadCmd.Flags().StringVar(&accessToken, "access-token", "", "Graph API access token (prefer 'auth login' over this flag)")
	uploadCmd.Flags().StringVar(&tokenProfile, "profile", "", "use a specific stored token profile")
	uploadCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "log what would be uploaded without making any network calls")
	uploadCmd.Flags().BoolVar(&removeUploaded, "remove-uploaded", false, "delete frame files after successful upload")
	uploadCmd.Flags().StringVar(&runLogPath, "run-log", "", "path of the append-only run log file")
	uploadCmd.Flags().BoolVar(&useTUI, "tui", false, "use interactive terminal UI with real-time progress")

	uploadCmd.MarkFlagRequired("start")
}

func runUpload(cmd *cobra.Command, args []string) {
	// Reject bad grouping before anything is loaded. The distinction between
	// "flag absent" and "--multi-photo 0" matters here.
	if cmd.Flags().Changed("multi-photo") && (multiPhoto < 1 || multiPhoto > facebook.MaxPhotosPerPost) {
		ui.PrintError("Invalid multi-photo value", fmt.Sprintf("must be between 1 and %d, got %d", facebook.MaxPhotosPerPost, multiPhoto))
		os.Exit(1)
	}

	// Build flags map from command line
	flags := make(map[string]interface{})
	if accessToken != "" {
		flags["access-token"] = accessToken
	}
	if albumID != "" {
		flags["album"] = albumID
	}
	if framesDir != "" {
		flags["frames-dir"] = framesDir
	}
	if captionTmpl != "" {
		flags["caption"] = captionTmpl
	}
	if cmd.Flags().Changed("delay") {
		flags["delay"] = uploadDelay
	}
	if cmd.Flags().Changed("remove-uploaded") {
		flags["remove-uploaded"] = removeUploaded
	}
	if runLogPath != "" {
		flags["run-log"] = runLogPath
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
	logger.WithField("version", version).Info("fbframes starting")

	// Resolve the access token. A dry run never talks to the Graph API, so
	// it runs without one.
	if cfg.Facebook.AccessToken == "" && !dryRun {
		manager, err := auth.NewManager()
		if err != nil {
			ui.PrintError("Failed to initialize credential manager", err.Error())
			os.Exit(1)
		}

		token, err := manager.Retrieve(tokenProfile)
		if err != nil {
			logger.Error("No access token found")
			ui.PrintError("No Facebook access token found", "")
			fmt.Println("\nTo store a token securely, run:")
			fmt.Println("  fbframes auth login")
			fmt.Println("\nYou can also set an environment variable:")
			fmt.Println("  export FBFRAMES_ACCESS_TOKEN=your_access_token")
			os.Exit(1)
		}
		cfg.Facebook.AccessToken = token.AccessToken
		logger.WithField("profile", token.Name).Info("Using stored access token")
	}

	if !useTUI {
		ui.PrintInfo("Start frame", fmt.Sprintf("%d", startFrame))
		ui.PrintInfo("Frame count", fmt.Sprintf("%d", loopCount))
		if dryRun {
			ui.PrintWarning("DRY RUN: no posts will be created")
		}
	}

	resolver := frames.NewResolver(cfg.Upload.FramesDirectory, cfg.Upload.FramePrefix, cfg.Upload.PadWidth, cfg.Upload.FrameExtension)
	client := facebook.NewClient(cfg.Facebook.AccessToken, cfg.Facebook.APIVersion, cfg.Facebook.Timeout, logger.GetLogger())

	runCfg := uploader.Config{
		Start:           startFrame,
		Count:           loopCount,
		MultiPhoto:      multiPhoto,
		AlbumID:         cfg.Facebook.AlbumID,
		DryRun:          dryRun,
		RemoveUploaded:  cfg.Upload.RemoveUploaded,
		Delay:           cfg.Upload.Delay,
		CaptionTemplate: cfg.Upload.CaptionTemplate,
	}

	up, err := uploader.New(client, resolver, runCfg, logger.GetLogger())
	if err != nil {
		ui.PrintError("Invalid upload parameters", err.Error())
		os.Exit(1)
	}

	// Every run outcome is appended to the run log, dry runs included
	log, err := runlog.New(cfg.Upload.RunLogFile)
	if err != nil {
		ui.PrintError("Failed to open run log", err.Error())
		os.Exit(1)
	}
	defer log.Close()
	up.AddObserver(log)

	logger.WithField("start", startFrame).Info("Starting upload run")

	var summary *uploader.Summary
	if useTUI {
		terminal := tui.New(loopCount)
		up.AddObserver(terminal)

		runDone := make(chan error)
		go func() {
			var runErr error
			summary, runErr = up.Run()
			runDone <- runErr
		}()

		tuiDone := make(chan error)
		go func() {
			tuiDone <- terminal.Start()
		}()

		select {
		case err := <-runDone:
			terminal.Stop()
			<-tuiDone
			if err != nil {
				logger.WithError(err).Error("Upload run failed")
				ui.PrintError("UPLOAD RUN FAILED", err.Error())
				os.Exit(1)
			}
		case err := <-tuiDone:
			if err != nil {
				logger.WithError(err).Error("TUI failed")
				os.Exit(1)
			}
			// User quit the TUI mid-run
			os.Exit(1)
		}
	} else {
		progress := ui.NewProgressDisplay(loopCount)
		up.AddObserver(progress)

		ui.PrintHighlight("[STARTING FRAME UPLOAD RUN]")

		summary, err = up.Run()
		if err != nil {
			logger.WithError(err).Error("Upload run failed")
			ui.PrintError("UPLOAD RUN FAILED", err.Error())
			os.Exit(1)
		}
	}

	if !summary.Clean() {
		logger.WithField("failed", summary.FramesFailed).Warn("Upload run finished with failures")
		os.Exit(2)
	}

	logger.Info("Upload run completed successfully")
	if !useTUI {
		ui.PrintSuccess("[UPLOAD RUN COMPLETED SUCCESSFULLY]")
	}
}
