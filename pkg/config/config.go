package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for the frame uploader
type Config struct {
	// Facebook Graph API settings
	Facebook FacebookConfig `yaml:"facebook" json:"facebook"`

	// Upload settings
	Upload UploadConfig `yaml:"upload" json:"upload"`

	// Frame extraction settings
	Extract ExtractConfig `yaml:"extract" json:"extract"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// FacebookConfig holds Graph API credentials and endpoint settings
type FacebookConfig struct {
	AccessToken string        `yaml:"access_token" json:"access_token"`
	APIVersion  string        `yaml:"api_version" json:"api_version"`
	AlbumID     string        `yaml:"album_id" json:"album_id"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`
}

// UploadConfig holds frame resolution and pacing settings
type UploadConfig struct {
	FramesDirectory string        `yaml:"frames_directory" json:"frames_directory"`
	FramePrefix     string        `yaml:"frame_prefix" json:"frame_prefix"`
	FrameExtension  string        `yaml:"frame_extension" json:"frame_extension"`
	PadWidth        int           `yaml:"pad_width" json:"pad_width"`
	CaptionTemplate string        `yaml:"caption_template" json:"caption_template"`
	Delay           time.Duration `yaml:"delay" json:"delay"`
	RemoveUploaded  bool          `yaml:"remove_uploaded" json:"remove_uploaded"`
	RunLogFile      string        `yaml:"run_log_file" json:"run_log_file"`
}

// ExtractConfig holds ffmpeg frame extraction settings. The output naming
// (directory, prefix, pad width, extension) comes from UploadConfig so that
// extracted frames resolve without further configuration.
type ExtractConfig struct {
	FFmpegPath string `yaml:"ffmpeg_path" json:"ffmpeg_path"`
	FrameRate  int    `yaml:"frame_rate" json:"frame_rate"`
	Quality    int    `yaml:"quality" json:"quality"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Facebook: FacebookConfig{
			APIVersion: "v22.0",
			Timeout:    10 * time.Second,
		},
		Upload: UploadConfig{
			FramesDirectory: "./frames",
			FramePrefix:     "frame_",
			FrameExtension:  "jpg",
			PadWidth:        4,
			CaptionTemplate: "Frame {num}",
			Delay:           2 * time.Second,
			RemoveUploaded:  false,
			RunLogFile:      "fbframes.log",
		},
		Extract: ExtractConfig{
			FFmpegPath: "ffmpeg",
			FrameRate:  2,
			Quality:    3,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from FBFRAMES_* environment variables
func (c *Config) LoadFromEnv() error {
	if token := os.Getenv("FBFRAMES_ACCESS_TOKEN"); token != "" {
		c.Facebook.AccessToken = token
	}
	if version := os.Getenv("FBFRAMES_API_VERSION"); version != "" {
		c.Facebook.APIVersion = version
	}
	if album := os.Getenv("FBFRAMES_ALBUM_ID"); album != "" {
		c.Facebook.AlbumID = album
	}
	if dir := os.Getenv("FBFRAMES_FRAMES_DIR"); dir != "" {
		c.Upload.FramesDirectory = dir
	}
	if caption := os.Getenv("FBFRAMES_CAPTION_TEMPLATE"); caption != "" {
		c.Upload.CaptionTemplate = caption
	}
	if delay := os.Getenv("FBFRAMES_DELAY"); delay != "" {
		if d, err := time.ParseDuration(delay); err == nil && d >= 0 {
			c.Upload.Delay = d
		}
	}
	if pad := os.Getenv("FBFRAMES_PAD_WIDTH"); pad != "" {
		if val, err := strconv.Atoi(pad); err == nil && val > 0 {
			c.Upload.PadWidth = val
		}
	}
	if logFile := os.Getenv("FBFRAMES_RUN_LOG"); logFile != "" {
		c.Upload.RunLogFile = logFile
	}
	if ffmpeg := os.Getenv("FBFRAMES_FFMPEG"); ffmpeg != "" {
		c.Extract.FFmpegPath = ffmpeg
	}
	if rate := os.Getenv("FBFRAMES_FRAME_RATE"); rate != "" {
		if val, err := strconv.Atoi(rate); err == nil && val > 0 {
			c.Extract.FrameRate = val
		}
	}
	if level := os.Getenv("FBFRAMES_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".fbframes.yaml",
		".fbframes.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "fbframes", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "fbframes", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".fbframes.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid.
// Credential presence is checked at the command layer because a dry run
// needs no token.
func (c *Config) Validate() error {
	var errs []error

	if c.Facebook.APIVersion == "" {
		errs = append(errs, errors.New("Graph API version is required"))
	}
	if c.Facebook.Timeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	if c.Upload.FramesDirectory == "" {
		errs = append(errs, errors.New("frames directory is required"))
	}
	if c.Upload.FramePrefix == "" {
		errs = append(errs, errors.New("frame prefix is required"))
	}
	if c.Upload.PadWidth <= 0 {
		errs = append(errs, errors.New("pad width must be positive"))
	}
	if c.Upload.CaptionTemplate == "" {
		errs = append(errs, errors.New("caption template is required"))
	}
	if c.Upload.Delay < 0 {
		errs = append(errs, errors.New("upload delay cannot be negative"))
	}
	if c.Upload.RunLogFile == "" {
		errs = append(errs, errors.New("run log file is required"))
	}

	if c.Extract.FFmpegPath == "" {
		errs = append(errs, errors.New("ffmpeg path is required"))
	}
	if c.Extract.FrameRate <= 0 {
		errs = append(errs, errors.New("frame rate must be positive"))
	}
	if c.Extract.Quality < 1 || c.Extract.Quality > 31 {
		errs = append(errs, errors.New("extraction quality must be between 1 and 31"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save saves the configuration to a file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// 0600: the file may hold an access token
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if token, ok := flags["access-token"].(string); ok && token != "" {
		c.Facebook.AccessToken = token
	}
	if album, ok := flags["album"].(string); ok && album != "" {
		c.Facebook.AlbumID = album
	}
	if dir, ok := flags["frames-dir"].(string); ok && dir != "" {
		c.Upload.FramesDirectory = dir
	}
	if caption, ok := flags["caption"].(string); ok && caption != "" {
		c.Upload.CaptionTemplate = caption
	}
	if delay, ok := flags["delay"].(time.Duration); ok && delay >= 0 {
		c.Upload.Delay = delay
	}
	if remove, ok := flags["remove-uploaded"].(bool); ok {
		c.Upload.RemoveUploaded = remove
	}
	if logFile, ok := flags["run-log"].(string); ok && logFile != "" {
		c.Upload.RunLogFile = logFile
	}
	if ffmpeg, ok := flags["ffmpeg"].(string); ok && ffmpeg != "" {
		c.Extract.FFmpegPath = ffmpeg
	}
	if rate, ok := flags["fps"].(int); ok && rate > 0 {
		c.Extract.FrameRate = rate
	}
	if quality, ok := flags["quality"].(int); ok && quality > 0 {
		c.Extract.Quality = quality
	}
	if level, ok := flags["log-level"].(string); ok && level != "" {
		c.Logging.Level = level
	}
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".fbframes.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
