package visualcrypt

import (
	"fmt"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// ShareStats summarizes how much a single share gives away about the source
// it was cut from.
type ShareStats struct {
	// InkDensity is the fraction of ink among all opaque subpixel
	// channels. The covering design pins it to exactly 0.5 for every
	// source image; any drift indicates a broken pattern table.
	InkDensity float64
	// Correlation is the Pearson correlation between source channel
	// intensity and ink presence at the block's top-left slot. Near zero
	// means the share alone does not leak the image. NaN when the source
	// has no intensity variation.
	Correlation float64
	// OpaqueBlocks counts blocks written for non-transparent source
	// pixels.
	OpaqueBlocks int
}

// Analyze inspects one share against its source image. The share must be a
// 2x encode of src.
func Analyze(share *image.NRGBA, src image.Image) (ShareStats, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if sb := share.Bounds(); sb.Dx() != 2*w || sb.Dy() != 2*h {
		return ShareStats{}, fmt.Errorf("%w: share is %dx%d for a %dx%d source",
			ErrBufferSize, sb.Dx(), sb.Dy(), w, h)
	}
	var (
		stats      ShareStats
		inkSubpix  int
		intensity  []float64
		topLeftInk []float64
	)
	off0 := share.Bounds().Min
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if c.A < alphaCutoff {
				continue
			}
			stats.OpaqueBlocks++
			chans := [3]uint8{c.R, c.G, c.B}
			for s := range slotCount {
				off := share.PixOffset(off0.X+2*x+slotOffsets[s][0], off0.Y+2*y+slotOffsets[s][1])
				for ch := range 3 {
					ink := share.Pix[off+ch] == 0
					if ink {
						inkSubpix++
					}
					if s == 0 {
						intensity = append(intensity, float64(chans[ch]))
						if ink {
							topLeftInk = append(topLeftInk, 1)
						} else {
							topLeftInk = append(topLeftInk, 0)
						}
					}
				}
			}
		}
	}
	if stats.OpaqueBlocks > 0 {
		stats.InkDensity = float64(inkSubpix) / float64(stats.OpaqueBlocks*slotCount*3)
	}
	stats.Correlation = stat.Correlation(intensity, topLeftInk, nil)
	return stats, nil
}

// StackContrast measures how far the stacked reconstruction sits from the
// source: the mean perceptual (Lab) distance between each 2x2 block's
// average color and its source pixel. The measure is relative — even a
// perfect light block reconstructs to mid-gray, not white — so it is meant
// for comparing runs, not as an absolute fidelity score.
func StackContrast(stacked *image.NRGBA, src image.Image) (float64, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if sb := stacked.Bounds(); sb.Dx() != 2*w || sb.Dy() != 2*h {
		return 0, fmt.Errorf("%w: stack is %dx%d for a %dx%d source",
			ErrBufferSize, sb.Dx(), sb.Dy(), w, h)
	}
	sum, blocks := 0.0, 0
	off0 := stacked.Bounds().Min
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			if c.A < alphaCutoff {
				continue
			}
			var r, g, b int
			for s := range slotCount {
				off := stacked.PixOffset(off0.X+2*x+slotOffsets[s][0], off0.Y+2*y+slotOffsets[s][1])
				r += int(stacked.Pix[off+0])
				g += int(stacked.Pix[off+1])
				b += int(stacked.Pix[off+2])
			}
			got := colorful.Color{
				R: float64(r) / (slotCount * 255),
				G: float64(g) / (slotCount * 255),
				B: float64(b) / (slotCount * 255),
			}
			want := colorful.Color{
				R: float64(c.R) / 255,
				G: float64(c.G) / 255,
				B: float64(c.B) / 255,
			}
			sum += got.DistanceLab(want)
			blocks++
		}
	}
	if blocks == 0 {
		return 0, nil
	}
	return sum / float64(blocks), nil
}
