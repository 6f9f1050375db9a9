package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(EnvPort, "")
	t.Setenv(EnvTickMs, "")
	t.Setenv(EnvMaxUpload, "")
	t.Setenv(EnvRenderMin, "")
	t.Setenv(EnvHeadless, "")
	t.Setenv(EnvDataDir, "/tmp/editor-data")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.TickInterval() != 250*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 250ms", cfg.TickInterval())
	}
	if cfg.MaxUploadBytes() != 2_000_000_000 {
		t.Errorf("MaxUploadBytes() = %d, want 2000000000", cfg.MaxUploadBytes())
	}
	if cfg.DBPath() != filepath.Join("/tmp/editor-data", DBFilename) {
		t.Errorf("DBPath() = %q", cfg.DBPath())
	}
	if cfg.MediaDir() != filepath.Join("/tmp/editor-data", "media") {
		t.Errorf("MediaDir() = %q", cfg.MediaDir())
	}
	if cfg.RenderTimeout() != 30*time.Minute {
		t.Errorf("RenderTimeout() = %v, want 30m", cfg.RenderTimeout())
	}
	if cfg.Headless() {
		t.Error("Headless() = true, want false")
	}
}

func TestNew_FromEnv(t *testing.T) {
	t.Setenv(EnvPort, "9100")
	t.Setenv(EnvTickMs, "40")
	t.Setenv(EnvMaxUpload, "2 GiB")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvFFmpeg, "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv(EnvRenderMin, "5")
	t.Setenv(EnvHeadless, "true")

	cfg, err := New()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port() != 9100 {
		t.Errorf("Port() = %d, want 9100", cfg.Port())
	}
	if cfg.TickInterval() != 40*time.Millisecond {
		t.Errorf("TickInterval() = %v, want 40ms", cfg.TickInterval())
	}
	if cfg.MaxUploadBytes() != 2<<30 {
		t.Errorf("MaxUploadBytes() = %d, want %d", cfg.MaxUploadBytes(), int64(2<<30))
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if cfg.FFmpegPath() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath() = %q", cfg.FFmpegPath())
	}
	if cfg.RenderTimeout() != 5*time.Minute {
		t.Errorf("RenderTimeout() = %v, want 5m", cfg.RenderTimeout())
	}
	if !cfg.Headless() {
		t.Error("Headless() = false, want true")
	}
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  string
		val  string
	}{
		{"port not a number", EnvPort, "abc"},
		{"port out of range", EnvPort, "70000"},
		{"tick too small", EnvTickMs, "5"},
		{"upload not a size", EnvMaxUpload, "lots"},
		{"render timeout zero", EnvRenderMin, "0"},
		{"headless not a bool", EnvHeadless, "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			if _, err := New(); err == nil {
				t.Errorf("New() with %s=%q should fail", tt.env, tt.val)
			}
		})
	}
}
