package utils

import (
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Posterize maps every pixel of img to its nearest palette color in Lab
// space, preserving alpha. Flattening the source to a few colors before
// encoding gives the halftoned shares larger uniform regions and a cleaner
// stacked reconstruction. An empty palette returns a plain copy.
func Posterize(img image.Image, palette []colorful.Color) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	type entry struct {
		lab     colorful.Color
		r, g, b uint8
	}
	entries := make([]entry, len(palette))
	for i, c := range palette {
		c = c.Clamped()
		r, g, bl := c.RGB255()
		entries[i] = entry{lab: c, r: r, g: g, b: bl}
	}

	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			if len(entries) == 0 {
				out.SetNRGBA(x, y, c)
				continue
			}
			src := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
			best, bestD := 0, src.DistanceLab(entries[0].lab)
			for i := 1; i < len(entries); i++ {
				if d := src.DistanceLab(entries[i].lab); d < bestD {
					bestD = d
					best = i
				}
			}
			e := entries[best]
			out.SetNRGBA(x, y, color.NRGBA{R: e.r, G: e.g, B: e.b, A: c.A})
		}
	}
	return out
}
