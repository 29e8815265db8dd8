package sticker

import (
	"fmt"
	"image"
)

// Render turns a normalized raster into a sticker raster.
//
// The output has the dimensions of the input after the optional crop and
// always carries four 8-bit channels. The input raster is not modified.
//
// Pixels left fully transparent come out as (0,0,0,0) whatever color they
// carried in the input, so a transparent input pixel is equal to its output
// only when its color channels are already zero.
func Render(r *image.NRGBA, cfg Config) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := checkRaster(r); err != nil {
		return nil, err
	}

	if cfg.Crop {
		// A fully transparent raster is kept as is.
		r, _ = CropToSubject(r, cfg.Padding)
	}

	mask := OpacityMask(r, cfg.AlphaThreshold)
	border, shadow := Synthesize(mask, cfg)
	return Compose(r, border, shadow, cfg), nil
}

// Process runs the whole pipeline on an encoded image and returns the sticker
// encoded as PNG. Inputs larger than DefaultMaxPixels fail with ErrDecode.
func Process(input []byte, cfg Config) ([]byte, error) {
	return ProcessLimit(input, cfg, DefaultMaxPixels)
}

// ProcessLimit is Process with the pixel budget of DecodeLimit.
func ProcessLimit(input []byte, cfg Config, maxPixels int) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	r, err := DecodeLimit(input, maxPixels)
	if err != nil {
		return nil, err
	}

	out, err := Render(r, cfg)
	if err != nil {
		return nil, err
	}
	return Encode(out)
}

// SubjectInfo describes where the subject sits inside an image.
type SubjectInfo struct {
	// Width and Height are the raster dimensions.
	Width  int `json:"width"`
	Height int `json:"height"`

	// Transparent is true when every pixel has alpha 0. Bounds is then empty.
	Transparent bool `json:"transparent"`

	// Bounds is the bounding box of pixels with alpha > 0.
	Bounds Rect `json:"bounds"`

	// SubjectPixels counts pixels whose alpha exceeds the threshold.
	SubjectPixels int `json:"subject_pixels"`

	// Coverage is SubjectPixels as a percentage of all pixels.
	Coverage float64 `json:"coverage_percent"`
}

// Rect is a JSON-friendly rectangle; (X1,Y1) inclusive, (X2,Y2) exclusive.
type Rect struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Subject analyses a normalized raster without rendering it.
func Subject(r *image.NRGBA, threshold int) (*SubjectInfo, error) {
	if err := checkRaster(r); err != nil {
		return nil, err
	}
	if threshold < 0 || threshold > 255 {
		return nil, &ConfigError{Field: "alpha_threshold", Value: threshold, Reason: "must be within 0-255"}
	}

	info := &SubjectInfo{Width: r.Rect.Dx(), Height: r.Rect.Dy()}
	box, ok := BoundingBox(r)
	info.Transparent = !ok
	if ok {
		info.Bounds = Rect{X1: box.Min.X, Y1: box.Min.Y, X2: box.Max.X, Y2: box.Max.Y}
	}

	for _, v := range OpacityMask(r, threshold).Pix {
		if v != 0 {
			info.SubjectPixels++
		}
	}
	if total := info.Width * info.Height; total > 0 {
		info.Coverage = float64(info.SubjectPixels*100) / float64(total)
	}
	return info, nil
}

// SubjectBounds decodes an image and reports its subject geometry.
func SubjectBounds(input []byte, threshold int) (*SubjectInfo, error) {
	r, err := Decode(input)
	if err != nil {
		return nil, fmt.Errorf("failed to load image: %w", err)
	}
	return Subject(r, threshold)
}
