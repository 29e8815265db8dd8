package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

func TestRenderFile(t *testing.T) {
	cache := NewImageCache()
	src := createStickerSource(120, 100, image.Rect(40, 30, 80, 70))
	path := createTestImageFile(t, "subject.png", src)

	cfg := sticker.DefaultConfig()
	cfg.Padding = 10
	out, err := RenderFile(cache, path, cfg)
	if err != nil {
		t.Fatalf("RenderFile failed: %v", err)
	}

	// 40x40 subject plus 10px padding on each side
	if want := image.Rect(0, 0, 60, 60); out.Bounds() != want {
		t.Errorf("bounds: got %v, want %v", out.Bounds(), want)
	}

	cached, _ := cache.Load(path)
	if !bytes.Equal(cached.Pix, src.Pix) {
		t.Error("RenderFile modified the cached raster")
	}
}

func TestRenderFile_InvalidConfig(t *testing.T) {
	path := createTestImageFile(t, "subject.png", createStickerSource(10, 10, image.Rect(2, 2, 8, 8)))

	cfg := sticker.DefaultConfig()
	cfg.AlphaThreshold = -5
	if _, err := RenderFile(NewImageCache(), path, cfg); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestEncodeResult(t *testing.T) {
	img := createStickerSource(32, 16, image.Rect(4, 4, 12, 12))

	result, err := EncodeResult(img)
	if err != nil {
		t.Fatalf("EncodeResult failed: %v", err)
	}
	if result.Width != 32 || result.Height != 16 {
		t.Errorf("dimensions: got %dx%d, want 32x16", result.Width, result.Height)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if len(data) != result.SizeBytes {
		t.Errorf("SizeBytes: got %d, want %d", result.SizeBytes, len(data))
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	if got := color.NRGBAModel.Convert(decoded.At(5, 5)).(color.NRGBA); got != (color.NRGBA{200, 40, 40, 255}) {
		t.Errorf("pixel: got %v", got)
	}
}

func TestSaveResult(t *testing.T) {
	img := createStickerSource(20, 20, image.Rect(5, 5, 15, 15))
	path := filepath.Join(t.TempDir(), "out.png")

	result, err := SaveResult(img, path)
	if err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}
	if result.OutputPath != path || result.ImageBase64 != "" {
		t.Errorf("unexpected result: %+v", result)
	}

	stat, err := os.Stat(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if stat.Size() != int64(result.SizeBytes) {
		t.Errorf("file size %d, reported %d", stat.Size(), result.SizeBytes)
	}

	loaded, err := NewImageCache().Load(path)
	if err != nil {
		t.Fatalf("output does not load: %v", err)
	}
	if !bytes.Equal(loaded.Pix, img.Pix) {
		t.Error("saved image differs from input")
	}
}

func TestSaveResult_BadPath(t *testing.T) {
	img := createStickerSource(4, 4, image.Rect(1, 1, 3, 3))
	if _, err := SaveResult(img, filepath.Join(t.TempDir(), "missing", "out.png")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}
