package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != ":8080" || cfg.Server.Mode != "debug" {
		t.Errorf("server: got %+v", cfg.Server)
	}
	if cfg.Server.MaxConcurrent != 4 || cfg.Server.QueueTimeout != 30*time.Second {
		t.Errorf("concurrency: got %d / %v", cfg.Server.MaxConcurrent, cfg.Server.QueueTimeout)
	}
	if cfg.Redis.Enabled || cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("redis: got %+v", cfg.Redis)
	}
	if cfg.Upload.MaxSize != 10*1024*1024 {
		t.Errorf("upload.max_size: got %d", cfg.Upload.MaxSize)
	}
	if cfg.Upload.MaxPixels != sticker.DefaultMaxPixels {
		t.Errorf("upload.max_pixels: got %d", cfg.Upload.MaxPixels)
	}
	if diff := cmp.Diff(DefaultStickerSettings(), cfg.Sticker); diff != "" {
		t.Errorf("sticker settings mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: ":9090"
  mode: release
  max_concurrent: 2
  queue_timeout: 5s
redis:
  enabled: true
  addr: "cache:6379"
  ttl: 1h
upload:
  max_size: 1048576
  allowed_types: ["image/png"]
sticker:
  alpha_threshold: 200
  border_size: 10
  shadow_blur_strength: 5
  crop: false
  border_color: "#ff0000"
  kernel: disk
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != ":9090" || cfg.Server.Mode != "release" || cfg.Server.MaxConcurrent != 2 {
		t.Errorf("server: got %+v", cfg.Server)
	}
	if cfg.Server.QueueTimeout != 5*time.Second {
		t.Errorf("queue_timeout: got %v", cfg.Server.QueueTimeout)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "cache:6379" || cfg.Redis.TTL != time.Hour {
		t.Errorf("redis: got %+v", cfg.Redis)
	}
	if diff := cmp.Diff([]string{"image/png"}, cfg.Upload.AllowedTypes); diff != "" {
		t.Errorf("allowed_types mismatch (-want +got):\n%s", diff)
	}

	sc, err := cfg.Sticker.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if sc.AlphaThreshold != 200 || sc.ShadowBlur != 5 || sc.Crop {
		t.Errorf("sticker overrides not applied: %+v", sc)
	}
	if sc.BorderColor != (color.NRGBA{255, 0, 0, 255}) || sc.Kernel != sticker.KernelDisk {
		t.Errorf("color/kernel: got %v %v", sc.BorderColor, sc.Kernel)
	}
	if sc.Padding != 20 {
		t.Errorf("unset keys should keep defaults, padding %d", sc.Padding)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STICKER_SERVER_PORT", ":7000")
	t.Setenv("STICKER_STICKER_BORDER_SIZE", "3")
	t.Setenv("STICKER_REDIS_ENABLED", "true")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != ":7000" {
		t.Errorf("port: got %s, want :7000", cfg.Server.Port)
	}
	if cfg.Sticker.BorderSize != 3 {
		t.Errorf("border_size: got %d, want 3", cfg.Sticker.BorderSize)
	}
	if !cfg.Redis.Enabled {
		t.Error("redis.enabled should be true")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed yaml", "server: [port"},
		{"bad color", "sticker:\n  bg_color: \"#zzz\"\n"},
		{"bad threshold", "sticker:\n  alpha_threshold: 999\n"},
		{"no workers", "server:\n  max_concurrent: 0\n"},
		{"no upload budget", "upload:\n  max_size: 0\n"},
		{"no pixel budget", "upload:\n  max_pixels: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfigFile(t, tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}

func TestStickerSettings_Build(t *testing.T) {
	got, err := DefaultStickerSettings().Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if diff := cmp.Diff(sticker.DefaultConfig(), got); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}

	s := DefaultStickerSettings()
	s.ShadowColor = "#00000080"
	s.BgColor = "#abc"
	s.BgTransparent = false
	got, err = s.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got.ShadowColor != (color.NRGBA{0, 0, 0, 128}) {
		t.Errorf("shadow color: got %v", got.ShadowColor)
	}
	if got.BackgroundColor != (color.NRGBA{170, 187, 204, 255}) || got.TransparentBackground {
		t.Errorf("background: got %v transparent=%v", got.BackgroundColor, got.TransparentBackground)
	}
}

func TestStickerSettings_BuildErrors(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*StickerSettings)
		wantField string
	}{
		{"border color", func(s *StickerSettings) { s.BorderColor = "nope" }, "border_color"},
		{"shadow color", func(s *StickerSettings) { s.ShadowColor = "#12" }, "shadow_color"},
		{"bg color", func(s *StickerSettings) { s.BgColor = "" }, "bg_color"},
		{"kernel", func(s *StickerSettings) { s.Kernel = "star" }, "kernel"},
		{"border size", func(s *StickerSettings) { s.BorderSize = -1 }, "border_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStickerSettings()
			tt.mutate(&s)

			_, err := s.Build()
			var ce *sticker.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("got %v, want *sticker.ConfigError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("field: got %s, want %s", ce.Field, tt.wantField)
			}
			if !errors.Is(err, sticker.ErrConfig) {
				t.Error("error should match sticker.ErrConfig")
			}
		})
	}
}
