package sticker

import (
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Canvas is a compositing surface stored as premultiplied float planes in
// [0,1], one slice per channel. Layers are blended with whole-plane
// element-wise operations instead of per-pixel branches.
type Canvas struct {
	width, height int
	r, g, b, a    []float64

	// scratch planes reused by every Over call
	srcA, inv []float64
}

// NewCanvas returns a fully transparent canvas.
func NewCanvas(width, height int) *Canvas {
	n := width * height
	return &Canvas{
		width:  width,
		height: height,
		r:      make([]float64, n),
		g:      make([]float64, n),
		b:      make([]float64, n),
		a:      make([]float64, n),
		srcA:   make([]float64, n),
		inv:    make([]float64, n),
	}
}

// Bounds returns the canvas rectangle, origin at (0,0).
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// Fill replaces every pixel with col.
func (c *Canvas) Fill(col color.NRGBA) {
	a := float64(col.A) / 255
	fillPlane(c.r, float64(col.R)/255*a)
	fillPlane(c.g, float64(col.G)/255*a)
	fillPlane(c.b, float64(col.B)/255*a)
	fillPlane(c.a, a)
}

// OverColor composites a flat color layer whose per-pixel alpha is
// mask * col.A, over the canvas.
func (c *Canvas) OverColor(col color.NRGBA, mask *image.Gray) {
	for i, v := range mask.Pix[:len(c.srcA)] {
		c.srcA[i] = float64(v)
	}
	floats.Scale(float64(col.A)/(255*255), c.srcA)
	c.prepareInverse()

	for _, p := range []struct {
		dst []float64
		v   uint8
	}{{c.r, col.R}, {c.g, col.G}, {c.b, col.B}} {
		// dst = src + dst*(1-srcA), src = v*srcA
		floats.Mul(p.dst, c.inv)
		floats.AddScaled(p.dst, float64(p.v)/255, c.srcA)
	}
	floats.Mul(c.a, c.inv)
	floats.Add(c.a, c.srcA)
}

// OverImage composites a raster of the same size over the canvas.
func (c *Canvas) OverImage(r *image.NRGBA) {
	n := len(c.srcA)
	for i := 0; i < n; i++ {
		c.srcA[i] = float64(r.Pix[4*i+3]) / 255
	}
	c.prepareInverse()

	for ch, dst := range [][]float64{c.r, c.g, c.b} {
		floats.Mul(dst, c.inv)
		for i := 0; i < n; i++ {
			dst[i] += float64(r.Pix[4*i+ch]) / 255 * c.srcA[i]
		}
	}
	floats.Mul(c.a, c.inv)
	floats.Add(c.a, c.srcA)
}

// prepareInverse sets inv = 1 - srcA.
func (c *Canvas) prepareInverse() {
	floats.ScaleTo(c.inv, -1, c.srcA)
	floats.AddConst(1, c.inv)
}

// NRGBA quantizes the canvas to 8-bit non-premultiplied RGBA, rounding to
// nearest. Fully transparent pixels become (0,0,0,0).
func (c *Canvas) NRGBA() *image.NRGBA {
	out := image.NewNRGBA(c.Bounds())
	c.quantizeTo(out.Pix)
	return out
}

// quantizeTo writes the canvas into pix, laid out as NRGBA rows with stride
// 4*width. pix must start zeroed.
func (c *Canvas) quantizeTo(pix []uint8) {
	for i, a := range c.a {
		a8 := quantize(a)
		if a8 == 0 {
			continue
		}
		p := pix[4*i : 4*i+4 : 4*i+4]
		p[0] = quantize(c.r[i] / a)
		p[1] = quantize(c.g[i] / a)
		p[2] = quantize(c.b[i] / a)
		p[3] = a8
	}
}

// composeBandRows is how many rows Compose blends at a time. The float
// planes of a Canvas cost 48 bytes per pixel, so they are sized to one band
// instead of the whole image.
const composeBandRows = 128

// Compose stacks background, shadow, border and subject back to front.
//
// The background layer is painted only when cfg.TransparentBackground is
// false; in that case every output pixel is fully opaque. Otherwise pixels no
// layer covers stay transparent.
func Compose(subject *image.NRGBA, border, shadow *image.Gray, cfg Config) *image.NRGBA {
	w, h := subject.Rect.Dx(), subject.Rect.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	var c *Canvas
	for y0 := 0; y0 < h; y0 += composeBandRows {
		y1 := min(y0+composeBandRows, h)
		if c == nil || c.height != y1-y0 {
			c = NewCanvas(w, y1-y0)
		} else {
			c.clear()
		}

		if !cfg.TransparentBackground {
			c.Fill(opaque(cfg.BackgroundColor))
		}
		c.OverColor(cfg.ShadowColor, grayRows(shadow, y0, y1))
		c.OverColor(cfg.BorderColor, grayRows(border, y0, y1))
		c.OverImage(nrgbaRows(subject, y0, y1))
		c.quantizeTo(out.Pix[y0*out.Stride : y1*out.Stride])
	}
	return out
}

// clear makes the canvas fully transparent again.
func (c *Canvas) clear() {
	for _, p := range [][]float64{c.r, c.g, c.b, c.a} {
		fillPlane(p, 0)
	}
}

// grayRows views rows [y0,y1) of a mask as a mask with origin (0,0).
func grayRows(m *image.Gray, y0, y1 int) *image.Gray {
	return &image.Gray{
		Pix:    m.Pix[y0*m.Stride : y1*m.Stride],
		Stride: m.Stride,
		Rect:   image.Rect(0, 0, m.Rect.Dx(), y1-y0),
	}
}

// nrgbaRows views rows [y0,y1) of a raster as a raster with origin (0,0).
func nrgbaRows(r *image.NRGBA, y0, y1 int) *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix[y0*r.Stride : y1*r.Stride],
		Stride: r.Stride,
		Rect:   image.Rect(0, 0, r.Rect.Dx(), y1-y0),
	}
}

// opaque forces alpha to 255 so the flat background always yields an opaque
// result.
func opaque(col color.NRGBA) color.NRGBA {
	col.A = 255
	return col
}

func fillPlane(p []float64, v float64) {
	for i := range p {
		p[i] = v
	}
}

func quantize(v float64) uint8 {
	switch {
	case v <= 0 || math.IsNaN(v):
		return 0
	case v >= 1:
		return 255
	}
	return uint8(math.Round(v * 255))
}
