package sticker

import (
	"image"

	"github.com/disintegration/imaging"
)

// BoundingBox returns the smallest rectangle enclosing every pixel with
// alpha > 0. The second result is false when the raster is fully transparent.
//
// The rectangle follows image.Rectangle conventions: Min inclusive, Max
// exclusive.
func BoundingBox(r *image.NRGBA) (image.Rectangle, bool) {
	w, h := r.Rect.Dx(), r.Rect.Dy()
	minX, minY, maxX, maxY := w, h, -1, -1

	for y := 0; y < h; y++ {
		row := r.Pix[y*r.Stride : y*r.Stride+4*w]
		first := -1
		for x := 0; x < w; x++ {
			if row[4*x+3] != 0 {
				first = x
				break
			}
		}
		if first < 0 {
			continue
		}
		last := first
		for x := w - 1; x > first; x-- {
			if row[4*x+3] != 0 {
				last = x
				break
			}
		}

		if first < minX {
			minX = first
		}
		if last > maxX {
			maxX = last
		}
		if y < minY {
			minY = y
		}
		maxY = y
	}

	if maxX < 0 {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}

// CropToSubject trims the raster to its bounding box grown by padding on every
// side and clamped to the raster bounds. The returned raster is a fresh copy
// with its origin at (0,0).
//
// When the raster is fully transparent nothing is cropped: the input is
// returned unchanged and the second result is false.
func CropToSubject(r *image.NRGBA, padding int) (*image.NRGBA, bool) {
	box, ok := BoundingBox(r)
	if !ok {
		return r, false
	}

	box = box.Inset(-padding).Intersect(r.Rect)
	return imaging.Crop(r, box), true
}

// OpacityMask thresholds the alpha channel: 255 where alpha > threshold and
// 0 elsewhere. The mask is strictly binary so dilation sees a crisp edge.
func OpacityMask(r *image.NRGBA, threshold int) *image.Gray {
	w, h := r.Rect.Dx(), r.Rect.Dy()
	mask := image.NewGray(image.Rect(0, 0, w, h))

	var lut [256]uint8
	for a := max(threshold+1, 0); a < 256; a++ {
		lut[a] = 255
	}

	for j := range mask.Pix {
		mask.Pix[j] = lut[r.Pix[4*j+3]]
	}
	return mask
}
