package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "v22.0", cfg.Facebook.APIVersion)
	assert.Equal(t, 10*time.Second, cfg.Facebook.Timeout)
	assert.Empty(t, cfg.Facebook.AccessToken)

	assert.Equal(t, "./frames", cfg.Upload.FramesDirectory)
	assert.Equal(t, "frame_", cfg.Upload.FramePrefix)
	assert.Equal(t, "jpg", cfg.Upload.FrameExtension)
	assert.Equal(t, 4, cfg.Upload.PadWidth)
	assert.Equal(t, "Frame {num}", cfg.Upload.CaptionTemplate)
	assert.Equal(t, 2*time.Second, cfg.Upload.Delay)
	assert.False(t, cfg.Upload.RemoveUploaded)
	assert.Equal(t, "fbframes.log", cfg.Upload.RunLogFile)

	assert.Equal(t, "ffmpeg", cfg.Extract.FFmpegPath)
	assert.Equal(t, 2, cfg.Extract.FrameRate)
	assert.Equal(t, 3, cfg.Extract.Quality)

	assert.Equal(t, "info", cfg.Logging.Level)

	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("FBFRAMES_ACCESS_TOKEN", "env-token")
	t.Setenv("FBFRAMES_API_VERSION", "v21.0")
	t.Setenv("FBFRAMES_ALBUM_ID", "12345")
	t.Setenv("FBFRAMES_FRAMES_DIR", "/env/frames")
	t.Setenv("FBFRAMES_CAPTION_TEMPLATE", "Env frame {num}")
	t.Setenv("FBFRAMES_DELAY", "5s")
	t.Setenv("FBFRAMES_PAD_WIDTH", "6")
	t.Setenv("FBFRAMES_RUN_LOG", "/env/run.log")
	t.Setenv("FBFRAMES_FFMPEG", "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv("FBFRAMES_FRAME_RATE", "5")
	t.Setenv("FBFRAMES_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "env-token", cfg.Facebook.AccessToken)
	assert.Equal(t, "v21.0", cfg.Facebook.APIVersion)
	assert.Equal(t, "12345", cfg.Facebook.AlbumID)
	assert.Equal(t, "/env/frames", cfg.Upload.FramesDirectory)
	assert.Equal(t, "Env frame {num}", cfg.Upload.CaptionTemplate)
	assert.Equal(t, 5*time.Second, cfg.Upload.Delay)
	assert.Equal(t, 6, cfg.Upload.PadWidth)
	assert.Equal(t, "/env/run.log", cfg.Upload.RunLogFile)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Extract.FFmpegPath)
	assert.Equal(t, 5, cfg.Extract.FrameRate)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("FBFRAMES_DELAY", "not-a-duration")
	t.Setenv("FBFRAMES_PAD_WIDTH", "zero")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 2*time.Second, cfg.Upload.Delay)
	assert.Equal(t, 4, cfg.Upload.PadWidth)
}

func TestLoadFromFile(t *testing.T) {
	content := `
facebook:
  access_token: "file-token"
  api_version: "v20.0"
  album_id: "777"
upload:
  frames_directory: "/movie/frames"
  caption_template: "File frame {num}"
  delay: 3s
logging:
  level: "warn"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "file-token", cfg.Facebook.AccessToken)
	assert.Equal(t, "v20.0", cfg.Facebook.APIVersion)
	assert.Equal(t, "777", cfg.Facebook.AlbumID)
	assert.Equal(t, "/movie/frames", cfg.Upload.FramesDirectory)
	assert.Equal(t, "File frame {num}", cfg.Upload.CaptionTemplate)
	assert.Equal(t, 3*time.Second, cfg.Upload.Delay)
	assert.Equal(t, "warn", cfg.Logging.Level)

	// Fields absent from the file keep their defaults
	assert.Equal(t, "frame_", cfg.Upload.FramePrefix)
	assert.Equal(t, 4, cfg.Upload.PadWidth)
}

func TestLoadFromFileMissingPathIsFatal(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))

	assert.Error(t, err)
}

func TestLoadFromFileBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("facebook: [not a map"), 0600))

	cfg := DefaultConfig()

	assert.Error(t, cfg.LoadFromFile(path))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"missing api version", func(c *Config) { c.Facebook.APIVersion = "" }, true},
		{"zero timeout", func(c *Config) { c.Facebook.Timeout = 0 }, true},
		{"missing frames dir", func(c *Config) { c.Upload.FramesDirectory = "" }, true},
		{"missing prefix", func(c *Config) { c.Upload.FramePrefix = "" }, true},
		{"zero pad width", func(c *Config) { c.Upload.PadWidth = 0 }, true},
		{"missing caption", func(c *Config) { c.Upload.CaptionTemplate = "" }, true},
		{"negative delay", func(c *Config) { c.Upload.Delay = -time.Second }, true},
		{"missing run log", func(c *Config) { c.Upload.RunLogFile = "" }, true},
		{"missing ffmpeg path", func(c *Config) { c.Extract.FFmpegPath = "" }, true},
		{"zero frame rate", func(c *Config) { c.Extract.FrameRate = 0 }, true},
		{"quality out of range", func(c *Config) { c.Extract.Quality = 32 }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"upper case log level", func(c *Config) { c.Logging.Level = "DEBUG" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMergeCommandLineFlags(t *testing.T) {
	cfg := DefaultConfig()

	cfg.MergeCommandLineFlags(map[string]interface{}{
		"access-token":    "flag-token",
		"album":           "999",
		"frames-dir":      "/flag/frames",
		"caption":         "Flag {num}",
		"delay":           7 * time.Second,
		"remove-uploaded": true,
		"run-log":         "/flag/run.log",
		"ffmpeg":          "/usr/local/bin/ffmpeg",
		"fps":             4,
		"quality":         5,
		"log-level":       "error",
	})

	assert.Equal(t, "flag-token", cfg.Facebook.AccessToken)
	assert.Equal(t, "999", cfg.Facebook.AlbumID)
	assert.Equal(t, "/flag/frames", cfg.Upload.FramesDirectory)
	assert.Equal(t, "Flag {num}", cfg.Upload.CaptionTemplate)
	assert.Equal(t, 7*time.Second, cfg.Upload.Delay)
	assert.True(t, cfg.Upload.RemoveUploaded)
	assert.Equal(t, "/flag/run.log", cfg.Upload.RunLogFile)
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.Extract.FFmpegPath)
	assert.Equal(t, 4, cfg.Extract.FrameRate)
	assert.Equal(t, 5, cfg.Extract.Quality)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadPrecedence(t *testing.T) {
	content := `
facebook:
  access_token: "file-token"
  album_id: "file-album"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	t.Setenv("FBFRAMES_ACCESS_TOKEN", "env-token")

	// Flags beat env, env beats file
	cfg, err := Load(path, map[string]interface{}{"album": "flag-album"})

	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Facebook.AccessToken)
	assert.Equal(t, "flag-album", cfg.Facebook.AlbumID)
}

func TestLoadValidates(t *testing.T) {
	content := `
logging:
  level: "loud"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path, nil)

	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Facebook.AccessToken = "secret"
	cfg.Facebook.AlbumID = "321"
	require.NoError(t, cfg.Save(path))

	// Token-bearing files must not be world readable
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded := DefaultConfig()
	require.NoError(t, loaded.LoadFromFile(path))
	assert.Equal(t, "secret", loaded.Facebook.AccessToken)
	assert.Equal(t, "321", loaded.Facebook.AlbumID)
}
