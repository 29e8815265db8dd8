package imaging

import (
	"encoding/base64"
	"fmt"
	"image"
	"os"

	"github.com/ironsheep/sticker-tools-mcp/internal/sticker"
)

// ImageResult describes a rendered image handed back to a client, either
// inline as base64 PNG or as a file written to OutputPath.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	SizeBytes   int    `json:"size_bytes"`
	MimeType    string `json:"mime_type"`
	ImageBase64 string `json:"image_base64,omitempty"`
	OutputPath  string `json:"output_path,omitempty"`
}

// RenderFile loads the image at path through the cache and renders it as a
// sticker. The cached raster is left untouched.
func RenderFile(cache *ImageCache, path string, cfg sticker.Config) (*image.NRGBA, error) {
	src, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	out, err := sticker.Render(src, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to render sticker: %w", err)
	}
	return out, nil
}

// EncodeResult encodes img as PNG and returns it base64-encoded.
func EncodeResult(img *image.NRGBA) (*ImageResult, error) {
	data, err := sticker.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &ImageResult{
		Width:       img.Rect.Dx(),
		Height:      img.Rect.Dy(),
		SizeBytes:   len(data),
		MimeType:    "image/png",
		ImageBase64: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// SaveResult encodes img as PNG and writes it to path, replacing any existing
// file.
func SaveResult(img *image.NRGBA, path string) (*ImageResult, error) {
	data, err := sticker.Encode(img)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}

	return &ImageResult{
		Width:      img.Rect.Dx(),
		Height:     img.Rect.Dy(),
		SizeBytes:  len(data),
		MimeType:   "image/png",
		OutputPath: path,
	}, nil
}
