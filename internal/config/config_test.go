package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gifsmith/internal/config"
)

func TestLoadDefaultsWhenFileAbsent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("GIFSMITH_FFMPEG", "")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if cfg.GIF.Width != 480 || cfg.GIF.FPS != 10 {
		t.Fatalf("unexpected GIF defaults: %+v", cfg.GIF)
	}
	if cfg.FFmpegBinary() != "ffmpeg" {
		t.Fatalf("expected default ffmpeg binary, got %q", cfg.FFmpegBinary())
	}
	wantLogDir := filepath.Join(tempHome, ".local", "share", "gifsmith", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	if cfg.Paths.OutputDir != "" {
		t.Fatalf("expected empty output dir default, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadParsesFileAndExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := strings.Join([]string{
		"[paths]",
		`output_dir = "~/gifs"`,
		"[ffmpeg]",
		`binary = "/opt/ffmpeg/bin/ffmpeg"`,
		"[gif]",
		"width = 320",
		"fps = 15",
		"[logging]",
		`format = "JSON"`,
		`level = "DEBUG"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected load from %q, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "gifs") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.OutputDir)
	}
	if cfg.FFmpegBinary() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Fatalf("unexpected ffmpeg binary: %q", cfg.FFmpegBinary())
	}
	if cfg.GIF.Width != 320 || cfg.GIF.FPS != 15 {
		t.Fatalf("unexpected GIF settings: %+v", cfg.GIF)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values, got %+v", cfg.Logging)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantSub string
	}{
		{"negative width", "[gif]\nwidth = -1", "gif.width"},
		{"tiny width", "[gif]\nwidth = 8", "gif.width"},
		{"excessive fps", "[gif]\nfps = 90", "gif.fps"},
		{"bad format", "[logging]\nformat = \"xml\"", "logging.format"},
		{"bad level", "[logging]\nlevel = \"loud\"", "logging.level"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected error mentioning %q, got %v", tc.wantSub, err)
			}
		})
	}
}

func TestFFmpegEnvFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIFSMITH_FFMPEG", "/usr/local/bin/ffmpeg6")

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.FFmpegBinary() != "/usr/local/bin/ffmpeg6" {
		t.Fatalf("expected env fallback binary, got %q", cfg.FFmpegBinary())
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.GIF.Width != 480 {
		t.Fatalf("sample should carry defaults, got width %d", cfg.GIF.Width)
	}
}
