// Package config provides configuration management for the Heimdex editor.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	// Default values
	DefaultPort      = 8788
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".heimdex-editor"
	DefaultTickMs    = 250
	DefaultMaxUpload = "2GB"
	DefaultRenderMin = 30

	// Environment variable names
	EnvPort      = "HEIMDEX_EDITOR_PORT"
	EnvLogLevel  = "HEIMDEX_EDITOR_LOG_LEVEL"
	EnvDataDir   = "HEIMDEX_EDITOR_DATA_DIR"
	EnvTickMs    = "HEIMDEX_EDITOR_TICK_MS"
	EnvMaxUpload = "HEIMDEX_EDITOR_MAX_UPLOAD"
	EnvFFmpeg    = "HEIMDEX_EDITOR_FFMPEG"
	EnvRenderMin = "HEIMDEX_EDITOR_RENDER_TIMEOUT_MIN"
	EnvHeadless  = "HEIMDEX_EDITOR_HEADLESS"

	// Database filename
	DBFilename = "editor.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	MediaDir() string
	ExportDir() string
	TickInterval() time.Duration
	MaxUploadBytes() int64
	FFmpegPath() string
	RenderTimeout() time.Duration
	Headless() bool
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port           int
	logLevel       string
	dataDir        string
	tickInterval   time.Duration
	maxUploadBytes int64
	ffmpegPath     string
	renderTimeout  time.Duration
	headless       bool
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	maxUpload, _ := humanize.ParseBytes(DefaultMaxUpload)
	cfg := &EnvConfig{
		port:           DefaultPort,
		logLevel:       DefaultLogLevel,
		dataDir:        defaultDataDir(),
		tickInterval:   DefaultTickMs * time.Millisecond,
		maxUploadBytes: int64(maxUpload),
		renderTimeout:  DefaultRenderMin * time.Minute,
	}

	// Override port from environment
	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	// Playback driver tick; the clock advances by wall time on each tick
	if tm := os.Getenv(EnvTickMs); tm != "" {
		ms, err := strconv.Atoi(tm)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvTickMs, err)
		}
		if ms < 10 {
			return nil, fmt.Errorf("invalid %s: tick must be at least 10ms", EnvTickMs)
		}
		cfg.tickInterval = time.Duration(ms) * time.Millisecond
	}

	// Upload limit accepts human sizes such as "512MB" or "2 GiB"
	if mu := os.Getenv(EnvMaxUpload); mu != "" {
		n, err := humanize.ParseBytes(mu)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvMaxUpload, err)
		}
		if n == 0 {
			return nil, fmt.Errorf("invalid %s: limit must be positive", EnvMaxUpload)
		}
		cfg.maxUploadBytes = int64(n)
	}

	// Empty means look ffmpeg up on PATH
	cfg.ffmpegPath = os.Getenv(EnvFFmpeg)

	if rt := os.Getenv(EnvRenderMin); rt != "" {
		m, err := strconv.Atoi(rt)
		if err != nil || m < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive number of minutes", EnvRenderMin)
		}
		cfg.renderTimeout = time.Duration(m) * time.Minute
	}

	// Headless skips the system tray
	if h := os.Getenv(EnvHeadless); h != "" {
		v, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = v
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// MediaDir returns the directory holding uploaded media
func (c *EnvConfig) MediaDir() string {
	return filepath.Join(c.dataDir, "media")
}

// ExportDir returns the default export output directory
func (c *EnvConfig) ExportDir() string {
	return filepath.Join(c.dataDir, "exports")
}

func (c *EnvConfig) TickInterval() time.Duration {
	return c.tickInterval
}

func (c *EnvConfig) MaxUploadBytes() int64 {
	return c.maxUploadBytes
}

// FFmpegPath returns the configured ffmpeg binary, empty for auto-detect
func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

func (c *EnvConfig) RenderTimeout() time.Duration {
	return c.renderTimeout
}

func (c *EnvConfig) Headless() bool {
	return c.headless
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
