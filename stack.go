package visualcrypt

import (
	"fmt"
	"image"
)

// Stack simulates laying printed shares on top of each other: per-channel
// multiply compositing, so ink anywhere in the pile wins. Pixels transparent
// in every share stay transparent. Stacking fewer shares than were generated
// is allowed and shows what a partial coalition sees.
func Stack(shares []*image.NRGBA) (*image.NRGBA, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: nothing to stack", ErrShareCount)
	}
	bounds := shares[0].Bounds()
	for _, s := range shares[1:] {
		if s.Bounds() != bounds {
			return nil, fmt.Errorf("%w: share bounds differ", ErrBufferSize)
		}
	}
	out := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b := 255, 255, 255
			opaque := false
			for _, s := range shares {
				off := s.PixOffset(x, y)
				if s.Pix[off+3] == 0 {
					continue
				}
				opaque = true
				r = r * int(s.Pix[off+0]) / 255
				g = g * int(s.Pix[off+1]) / 255
				b = b * int(s.Pix[off+2]) / 255
			}
			if !opaque {
				continue // out starts zeroed (transparent)
			}
			off := out.PixOffset(x, y)
			out.Pix[off+0] = uint8(r)
			out.Pix[off+1] = uint8(g)
			out.Pix[off+2] = uint8(b)
			out.Pix[off+3] = 0xff
		}
	}
	return out, nil
}
