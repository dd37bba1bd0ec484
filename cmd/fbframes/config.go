package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"fbframes/pkg/auth"
	"fbframes/pkg/config"
	"fbframes/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage fbframes configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (FBFRAMES_*)
  - Configuration file
  - Default values (lowest priority)`,
}

// initCmd represents the config init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an example configuration file",
	Long: `Create an example configuration file with all available options.

The file will be created in the current directory as '.fbframes.yaml'
unless a different path is specified with the --config flag.`,
	Run: runConfigInit,
}

// showCmd represents the config show command
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Show the current configuration including values from all sources.

The access token is masked for security.`,
	Run: runConfigShow,
}

// validateCmd represents the config validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate a configuration file for syntax errors and invalid values.

This command checks:
  - YAML syntax
  - Required fields
  - Value types and ranges
  - Path accessibility`,
	Run: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) {
	configPath := configFile
	if configPath == "" {
		configPath = ".fbframes.yaml"
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError("Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		os.Exit(1)
	}

	exampleConfig := `# fbframes Configuration File
#
# This file contains all available configuration options.
# You can also use environment variables prefixed with FBFRAMES_
# For example: FBFRAMES_ACCESS_TOKEN, FBFRAMES_ALBUM_ID

# Facebook Graph API settings
facebook:
  # Access token (prefer 'fbframes auth login' over putting it here)
  access_token: ""

  # Graph API version
  api_version: "v22.0"

  # Target album ID; leave empty to post to the user's timeline
  album_id: ""

  # Request timeout
  timeout: 10s

# Upload settings
upload:
  # Directory holding the frame images
  frames_directory: "./frames"

  # Frame file naming: <prefix><zero-padded number>.<extension>
  # e.g. frame_0100.jpg
  frame_prefix: "frame_"
  frame_extension: "jpg"
  pad_width: 4

  # Caption template; {num} is replaced with the frame number
  caption_template: "Frame {num}"

  # Pause between consecutive uploads
  delay: 2s

  # Delete frame files after successful upload
  remove_uploaded: false

  # Append-only log of every upload outcome
  run_log_file: "fbframes.log"

# Frame extraction settings ('fbframes extract')
extract:
  # ffmpeg binary; a bare name is resolved via PATH
  ffmpeg_path: "ffmpeg"

  # Frames extracted per second of video
  frame_rate: 2

  # JPEG quality passed to ffmpeg -q:v (1 best, 31 worst)
  quality: 3

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: "info"

  # Log file path (optional)
  # Leave empty to log to stderr only
  file: ""
`

	if err := os.WriteFile(configPath, []byte(exampleConfig), 0600); err != nil {
		ui.PrintError("Failed to create configuration file", err.Error())
		os.Exit(1)
	}

	ui.PrintSuccess("Configuration file created: " + configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Run 'fbframes auth login' to store your access token")
	fmt.Println("2. Run 'fbframes config validate' to check the configuration")
	fmt.Println("3. Start uploading with 'fbframes upload --start <frame-number>'")
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Mask the token for display
	displayCfg := *cfg
	if displayCfg.Facebook.AccessToken != "" {
		displayCfg.Facebook.AccessToken = auth.MaskToken(displayCfg.Facebook.AccessToken)
	}

	data, err := yaml.Marshal(&displayCfg)
	if err != nil {
		ui.PrintError("Failed to format configuration", err.Error())
		os.Exit(1)
	}

	ui.PrintHighlight("Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (FBFRAMES_*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (not specified)")
	}
	fmt.Println("4. Default values")
}

func runConfigValidate(cmd *cobra.Command, args []string) {
	if configFile == "" {
		possiblePaths := []string{
			".fbframes.yaml",
			".fbframes.yml",
			filepath.Join(os.Getenv("HOME"), ".fbframes.yaml"),
			filepath.Join(os.Getenv("HOME"), ".config", "fbframes", "config.yaml"),
		}

		for _, path := range possiblePaths {
			if _, err := os.Stat(path); err == nil {
				configFile = path
				break
			}
		}

		if configFile == "" {
			ui.PrintError("No configuration file found", "Specify a file with --config flag")
			os.Exit(1)
		}
	}

	ui.PrintInfo("Validating configuration", configFile)

	cfg, err := config.Load(configFile, nil)
	if err != nil {
		ui.PrintError("Configuration validation failed", err.Error())
		os.Exit(1)
	}

	warnings := []string{}
	errors := []string{}

	if cfg.Facebook.AccessToken == "" {
		warnings = append(warnings, "access token not configured (run 'fbframes auth login' or set FBFRAMES_ACCESS_TOKEN)")
	}

	if _, err := os.Stat(cfg.Upload.FramesDirectory); err != nil {
		warnings = append(warnings, fmt.Sprintf("frames directory does not exist: %s", cfg.Upload.FramesDirectory))
	}

	if cfg.Upload.RunLogFile != "" {
		dir := filepath.Dir(cfg.Upload.RunLogFile)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create run log directory: %v", err))
		}
	}

	if cfg.Logging.File != "" {
		dir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(dir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create log directory: %v", err))
		}
	}

	if len(errors) > 0 {
		ui.PrintError("Configuration has errors:")
		for _, err := range errors {
			fmt.Printf("  - %s\n", err)
		}
		os.Exit(1)
	}

	if len(warnings) > 0 {
		ui.PrintWarning("Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess("Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Frames directory: %s\n", cfg.Upload.FramesDirectory)
	fmt.Printf("  Frame naming: %s%0*d.%s\n", cfg.Upload.FramePrefix, cfg.Upload.PadWidth, 0, cfg.Upload.FrameExtension)
	fmt.Printf("  API version: %s\n", cfg.Facebook.APIVersion)
	fmt.Printf("  Upload delay: %s\n", cfg.Upload.Delay)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
}
