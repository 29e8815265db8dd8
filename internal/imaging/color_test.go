package imaging

import (
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ffffff", color.NRGBA{255, 255, 255, 255}},
		{"#FF8040", color.NRGBA{255, 128, 64, 255}},
		{"ff8040", color.NRGBA{255, 128, 64, 255}},
		{"#f0c", color.NRGBA{255, 0, 204, 255}},
		{"#00000080", color.NRGBA{0, 0, 0, 128}},
		{"  #102030ff ", color.NRGBA{16, 32, 48, 255}},
		{"white", color.NRGBA{255, 255, 255, 255}},
		{"Black", color.NRGBA{0, 0, 0, 255}},
		{"transparent", color.NRGBA{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseColor_Invalid(t *testing.T) {
	for _, in := range []string{"", "#", "#12", "#12345", "#gggggg", "#1234567", "#112233zz", "purple-ish"} {
		if _, err := ParseColor(in); err == nil {
			t.Errorf("ParseColor(%q): expected error", in)
		}
	}
}

func TestFormatColor(t *testing.T) {
	tests := []struct {
		c    color.NRGBA
		want string
	}{
		{color.NRGBA{255, 128, 64, 255}, "#ff8040"},
		{color.NRGBA{0, 0, 0, 255}, "#000000"},
		{color.NRGBA{16, 32, 48, 128}, "#10203080"},
		{color.NRGBA{}, "#00000000"},
	}

	for _, tt := range tests {
		if got := FormatColor(tt.c); got != tt.want {
			t.Errorf("FormatColor(%v): got %s, want %s", tt.c, got, tt.want)
		}
		back, err := ParseColor(tt.want)
		if err != nil || back != tt.c {
			t.Errorf("round trip %s: got %v (%v), want %v", tt.want, back, err, tt.c)
		}
	}
}

func TestDescribeColor(t *testing.T) {
	tests := []struct {
		name    string
		c       color.NRGBA
		wantHex string
		wantHSL HSLColor
	}{
		{"pure red", color.NRGBA{255, 0, 0, 255}, "#ff0000", HSLColor{0, 100, 50}},
		{"pure green", color.NRGBA{0, 255, 0, 255}, "#00ff00", HSLColor{120, 100, 50}},
		{"pure blue", color.NRGBA{0, 0, 255, 255}, "#0000ff", HSLColor{240, 100, 50}},
		{"white", color.NRGBA{255, 255, 255, 255}, "#ffffff", HSLColor{0, 0, 100}},
		{"half black", color.NRGBA{0, 0, 0, 128}, "#00000080", HSLColor{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DescribeColor(tt.c)
			if got.Hex != tt.wantHex {
				t.Errorf("Hex: got %s, want %s", got.Hex, tt.wantHex)
			}
			if got.HSL != tt.wantHSL {
				t.Errorf("HSL: got %+v, want %+v", got.HSL, tt.wantHSL)
			}
			if got.RGBA != (RGBAColor{tt.c.R, tt.c.G, tt.c.B, tt.c.A}) {
				t.Errorf("RGBA: got %+v", got.RGBA)
			}
		})
	}
}
