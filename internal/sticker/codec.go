package sticker

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// DefaultMaxPixels is the largest image, in pixels, Decode accepts.
const DefaultMaxPixels = 4096 * 4096

// Decode reads an encoded image and normalizes it to an NRGBA raster.
//
// Supported formats are PNG, JPEG, GIF (first frame), BMP, TIFF and WebP.
// JPEG EXIF orientation is applied. Images larger than DefaultMaxPixels are
// rejected. Any failure wraps ErrDecode.
func Decode(data []byte) (*image.NRGBA, error) {
	return DecodeLimit(data, DefaultMaxPixels)
}

// DecodeLimit is Decode with a caller-chosen pixel budget. The size declared
// in the image header is checked before any pixel is decoded. A maxPixels of
// 0 or less selects DefaultMaxPixels.
func DecodeLimit(data []byte, maxPixels int) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecode)
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	hdr, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if int64(hdr.Width)*int64(hdr.Height) > int64(maxPixels) {
		return nil, fmt.Errorf("%w: %dx%d image exceeds the %d pixel limit", ErrDecode, hdr.Width, hdr.Height, maxPixels)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	r := Normalize(img)
	if r.Rect.Empty() {
		return nil, fmt.Errorf("%w: image has no pixels", ErrDecode)
	}
	return r, nil
}

// Normalize converts any image to an 8-bit non-premultiplied RGBA raster with
// its origin at (0,0). Color models without alpha (gray, paletted without
// transparency, YCbCr, RGB) get alpha 255.
//
// A raster that already satisfies the layout is returned unchanged, so
// normalizing twice is a no-op.
func Normalize(img image.Image) *image.NRGBA {
	if r, ok := img.(*image.NRGBA); ok && checkRaster(r) == nil {
		return r
	}
	return imaging.Clone(img)
}

// checkRaster verifies the layout every pipeline stage indexes into directly.
func checkRaster(r *image.NRGBA) error {
	if r == nil {
		return fmt.Errorf("%w: nil raster", ErrInvalidMode)
	}
	if r.Rect.Min != (image.Point{}) {
		return fmt.Errorf("%w: origin %v is not (0,0)", ErrInvalidMode, r.Rect.Min)
	}
	w, h := r.Rect.Dx(), r.Rect.Dy()
	if r.Stride != 4*w || len(r.Pix) != 4*w*h {
		return fmt.Errorf("%w: stride %d and %d bytes do not match %dx%d", ErrInvalidMode, r.Stride, len(r.Pix), w, h)
	}
	return nil
}

// Encode serializes a raster as PNG.
func Encode(r *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeTo(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTo writes a raster to w as PNG. PNG is lossless, so decoding the
// output reproduces every pixel value exactly.
func EncodeTo(w io.Writer, r *image.NRGBA) error {
	if err := checkRaster(r); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	if err := imaging.Encode(w, r, imaging.PNG); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}
