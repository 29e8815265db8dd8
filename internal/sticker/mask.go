package sticker

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Dilate grows the "on" region of a mask by radius pixels: every output pixel
// is the maximum input value within the kernel neighborhood. The neighborhood
// is clipped at the mask edges. A radius of 0 returns a copy.
//
// Radii beyond the span of the mask are clamped, since a kernel that already
// reaches every pixel from every other pixel cannot grow any further.
func Dilate(mask *image.Gray, radius int, kernel Kernel) *image.Gray {
	if radius <= 0 {
		return cloneGray(mask)
	}
	radius = min(radius, saturatingRadius(mask.Rect.Dx(), mask.Rect.Dy(), kernel))
	if kernel == KernelDisk {
		return dilateDisk(mask, radius)
	}

	// A square max filter is separable: rows first, then columns.
	return maxColumns(maxRows(mask, radius), radius)
}

// saturatingRadius is the smallest radius whose kernel covers the offset
// between any two pixels of a w x h mask.
func saturatingRadius(w, h int, kernel Kernel) int {
	if kernel == KernelDisk {
		return int(math.Ceil(math.Hypot(float64(w-1), float64(h-1))))
	}
	return max(w-1, h-1)
}

// maxRows applies a 1-D sliding maximum of half-width r along every row.
func maxRows(src *image.Gray, r int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	maxRowsInto(dst, src, r, nil)
	return dst
}

// maxRowsInto is maxRows writing into dst, which must match src in size.
// The deque buffer is returned for reuse.
func maxRowsInto(dst, src *image.Gray, r int, dq []int) []int {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		dq = slidingMax(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w], r, dq)
	}
	return dq
}

// maxColumns applies a 1-D sliding maximum of half-width r along every column.
func maxColumns(src *image.Gray, r int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	in := make([]uint8, h)
	out := make([]uint8, h)
	var dq []int
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			in[y] = src.Pix[y*src.Stride+x]
		}
		dq = slidingMax(out, in, r, dq)
		for y := 0; y < h; y++ {
			dst.Pix[y*dst.Stride+x] = out[y]
		}
	}
	return dst
}

// slidingMax sets dst[i] to the maximum of src[i-r..i+r] clipped to the line,
// using a monotonic deque of indices so each element is pushed and popped
// once. The deque buffer is returned for reuse.
func slidingMax(dst, src []uint8, r int, dq []int) []int {
	n := len(src)
	dq = dq[:0]
	head, next := 0, 0
	for i := 0; i < n; i++ {
		hi := min(i+r, n-1)
		for ; next <= hi; next++ {
			for len(dq) > head && src[dq[len(dq)-1]] <= src[next] {
				dq = dq[:len(dq)-1]
			}
			dq = append(dq, next)
		}
		for dq[head] < i-r {
			head++
		}
		dst[i] = src[dq[head]]
	}
	return dq
}

// dilateDisk takes the maximum over offsets with dx²+dy² <= r². Each row of
// the disk is a horizontal run, so the filter is the maximum of row-maxima of
// varying half-widths taken from neighboring rows.
//
// Row offsets sharing a half-width are folded in together, so only one
// row-maximum buffer is alive at a time.
func dilateDisk(src *image.Gray, r int) *image.Gray {
	w, h := src.Rect.Dx(), src.Rect.Dy()

	// Offsets past the last row never land inside the mask.
	maxDy := min(r, h-1)

	// Half-widths shrink as |dy| grows, so equal ones form a contiguous run
	// of |dy| values. Runs at least as wide as the mask are all the same.
	halfWidth := func(dy int) int {
		return min(int(math.Floor(math.Sqrt(float64(r*r-dy*dy)))), w-1)
	}

	dst := image.NewGray(image.Rect(0, 0, w, h))
	hm := image.NewGray(image.Rect(0, 0, w, h))
	var dq []int
	for lo := 0; lo <= maxDy; {
		hw := halfWidth(lo)
		hi := lo
		for hi+1 <= maxDy && halfWidth(hi+1) == hw {
			hi++
		}

		if hw == 0 {
			copy(hm.Pix, src.Pix)
		} else {
			dq = maxRowsInto(hm, src, hw, dq)
		}
		for dy := lo; dy <= hi; dy++ {
			foldShifted(dst, hm, dy)
			if dy != 0 {
				foldShifted(dst, hm, -dy)
			}
		}
		lo = hi + 1
	}
	return dst
}

// foldShifted sets dst(x,y) = max(dst(x,y), src(x,y+dy)) wherever y+dy lies
// inside src.
func foldShifted(dst, src *image.Gray, dy int) {
	w, h := dst.Rect.Dx(), dst.Rect.Dy()
	for y := max(0, -dy); y < min(h, h-dy); y++ {
		sy := y + dy
		out := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		line := src.Pix[sy*src.Stride : sy*src.Stride+w]
		for x, v := range line {
			if v > out[x] {
				out[x] = v
			}
		}
	}
}

// BorderRing returns dilated - mask with saturation at 0: the pixels the
// dilation added around the subject. Pixels set in mask are never set in the
// ring as long as dilated >= mask pointwise.
func BorderRing(mask, dilated *image.Gray) *image.Gray {
	ring := image.NewGray(mask.Rect)
	for i, d := range dilated.Pix {
		if m := mask.Pix[i]; d > m {
			ring.Pix[i] = d - m
		}
	}
	return ring
}

// Soften blurs a mask with a Gaussian of standard deviation sigma. Values
// near the edges are renormalized over the part of the kernel that falls
// inside the mask, so edges neither darken nor brighten. A sigma of 0 returns
// a copy.
func Soften(mask *image.Gray, sigma float64) *image.Gray {
	if sigma <= 0 {
		return cloneGray(mask)
	}

	blurred := imaging.Blur(mask, sigma)
	out := image.NewGray(image.Rect(0, 0, blurred.Rect.Dx(), blurred.Rect.Dy()))
	for j := range out.Pix {
		out.Pix[j] = blurred.Pix[4*j]
	}
	return out
}

// Synthesize derives the border and shadow masks from a binary opacity mask.
//
// The ring added by dilating the mask is blurred by cfg.BorderBlur to become
// the border mask; the border mask is blurred again by cfg.ShadowBlur to
// become the shadow mask. Border and shadow therefore share one silhouette.
func Synthesize(mask *image.Gray, cfg Config) (border, shadow *image.Gray) {
	ring := BorderRing(mask, Dilate(mask, cfg.BorderSize, cfg.Kernel))
	border = Soften(ring, cfg.BorderBlur)
	shadow = Soften(border, cfg.ShadowBlur)
	return border, shadow
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Rect)
	copy(dst.Pix, src.Pix)
	return dst
}

