package utils

import (
	"image"

	"golang.org/x/image/draw"
)

// FitTo scales img down to fit inside a maxW x maxH box, preserving aspect
// ratio. Images already inside the box come back untouched. The encoder
// doubles dimensions, so keeping sources display-sized keeps the shares
// printable.
func FitTo(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxW <= 0 || maxH <= 0 || (w <= maxW && h <= maxH) {
		return img
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	nw := max(int(float64(w)*scale+0.5), 1)
	nh := max(int(float64(h)*scale+0.5), 1)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
