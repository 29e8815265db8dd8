package sticker

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// MaxRadius bounds BorderSize and Padding. Larger values only allocate memory
// without changing the visual result on realistic images.
const MaxRadius = 1024

// MaxBlur bounds BorderBlur and ShadowBlur (Gaussian standard deviation).
const MaxBlur = 256.0

// Kernel selects the neighborhood shape used when dilating the opacity mask.
type Kernel int

const (
	// KernelSquare takes the maximum over a (2r+1)x(2r+1) window. The border
	// grows by r pixels along every axis and diagonal, which squares off
	// convex corners.
	KernelSquare Kernel = iota

	// KernelDisk restricts the window to offsets within Euclidean distance r,
	// which rounds convex corners. Borders drawn with it are narrower along
	// diagonals than KernelSquare borders.
	KernelDisk
)

// String returns the lowercase kernel name.
func (k Kernel) String() string {
	switch k {
	case KernelSquare:
		return "square"
	case KernelDisk:
		return "disk"
	default:
		return fmt.Sprintf("kernel(%d)", int(k))
	}
}

// ParseKernel converts "square" or "disk" (case-insensitive) to a Kernel.
// An empty string selects KernelSquare.
func ParseKernel(s string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "square":
		return KernelSquare, nil
	case "disk", "circle":
		return KernelDisk, nil
	default:
		return KernelSquare, &ConfigError{Field: "kernel", Value: s, Reason: "must be square or disk"}
	}
}

// Config holds every parameter of a sticker rendering.
//
// Config is passed by value and never modified by the pipeline. Start from
// DefaultConfig and override the fields you need.
type Config struct {
	// AlphaThreshold is the alpha value a pixel must exceed to count as
	// subject (0-255).
	AlphaThreshold int `json:"alpha_threshold"`

	// BorderSize is the dilation radius in pixels.
	BorderSize int `json:"border_size"`

	// BorderColor fills the border layer.
	BorderColor color.NRGBA `json:"border_color"`

	// BorderBlur is the Gaussian sigma that anti-aliases the border ring.
	BorderBlur float64 `json:"border_blur"`

	// ShadowColor fills the shadow layer.
	ShadowColor color.NRGBA `json:"shadow_color"`

	// ShadowBlur is the Gaussian sigma applied to the border to form the
	// shadow.
	ShadowBlur float64 `json:"shadow_blur_strength"`

	// Padding is the margin kept around the subject when cropping.
	Padding int `json:"padding"`

	// BackgroundColor fills the canvas when TransparentBackground is false.
	BackgroundColor color.NRGBA `json:"bg_color"`

	// TransparentBackground keeps uncovered pixels transparent.
	TransparentBackground bool `json:"bg_transparent"`

	// Crop trims the canvas to the subject's bounding box plus Padding.
	Crop bool `json:"crop"`

	// Kernel is the dilation neighborhood shape.
	Kernel Kernel `json:"kernel"`
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{A: 255}
)

// DefaultConfig returns the stock sticker look: a 10px white border, a black
// shadow blurred with sigma 6, cropping with 20px padding and a transparent
// background.
func DefaultConfig() Config {
	return Config{
		AlphaThreshold:        10,
		BorderSize:            10,
		BorderColor:           white,
		BorderBlur:            1.5,
		ShadowColor:           black,
		ShadowBlur:            6,
		Padding:               20,
		BackgroundColor:       white,
		TransparentBackground: true,
		Crop:                  true,
		Kernel:                KernelSquare,
	}
}

// Validate checks every numeric field against its allowed range and returns
// the first violation as a *ConfigError.
func (c Config) Validate() error {
	if c.AlphaThreshold < 0 || c.AlphaThreshold > 255 {
		return &ConfigError{Field: "alpha_threshold", Value: c.AlphaThreshold, Reason: "must be within 0-255"}
	}
	if c.BorderSize < 0 || c.BorderSize > MaxRadius {
		return &ConfigError{Field: "border_size", Value: c.BorderSize, Reason: fmt.Sprintf("must be within 0-%d", MaxRadius)}
	}
	if c.Padding < 0 || c.Padding > MaxRadius {
		return &ConfigError{Field: "padding", Value: c.Padding, Reason: fmt.Sprintf("must be within 0-%d", MaxRadius)}
	}
	if err := checkBlur("border_blur", c.BorderBlur); err != nil {
		return err
	}
	if err := checkBlur("shadow_blur_strength", c.ShadowBlur); err != nil {
		return err
	}
	if c.Kernel != KernelSquare && c.Kernel != KernelDisk {
		return &ConfigError{Field: "kernel", Value: c.Kernel, Reason: "must be square or disk"}
	}
	return nil
}

func checkBlur(field string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > MaxBlur {
		return &ConfigError{Field: field, Value: v, Reason: fmt.Sprintf("must be within 0-%g", MaxBlur)}
	}
	return nil
}
