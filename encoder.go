// Package visualcrypt splits a source image into n share images that look
// like unstructured noise on their own but reconstruct an approximation of
// the source when physically or digitally stacked. Each source pixel expands
// into a 2x2 subpixel block per share; the covering design keeps every share
// at exactly half ink while the stack of all shares darkens where the source
// was dark.
package visualcrypt

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
)

// Errors reported before any share buffer is allocated.
var (
	ErrShareCount = errors.New("visualcrypt: share count outside [2,4]")
	ErrBufferSize = errors.New("visualcrypt: pixel buffer does not match declared dimensions")
)

// Source pixels with alpha below this are carried through as fully
// transparent blocks in every share.
const alphaCutoff = 50

type Options struct {
	// Number of shares to cut the image into. Valid range is 2-4: with a
	// 2x2 block and two ink subpixels per share, four shares is the
	// largest count whose ink sets can still union to the full block.
	Shares int
	// Encode R, G and B independently. When false every channel carries
	// the source luminance instead, but each channel still draws its own
	// threshold and permutation, so grayscale shares keep the same grain
	// as color ones.
	Color bool
	// Scanline parallelism for large images. Values below 2 keep the
	// single-pass loop. Ignored when Rand is set, since a scripted source
	// cannot be split across workers.
	Workers int
	// Randomness for threshold draws and slot permutations. Nil uses the
	// process-global math/rand/v2 source.
	Rand Rand
}

func DefaultOptions() Options {
	return Options{Shares: 2, Color: true}
}

// rgba8 is a flat interleaved RGBA arena, len = W*H*4.
type rgba8 struct {
	W, H int
	Pix  []uint8
}

func pixOffset(w, x, y int) int {
	return (y*w + x) * 4
}

// Encode splits img into opt.Shares noise images of twice the source width
// and height. The source is copied into an internal arena up front and never
// retained past the call.
func Encode(img image.Image, opt Options) ([]*image.NRGBA, error) {
	if opt.Shares < minShares || opt.Shares > maxShares {
		return nil, fmt.Errorf("%w: got %d", ErrShareCount, opt.Shares)
	}
	return encodeArena(fromImage(img), opt)
}

// EncodeBuffer is Encode for callers holding a raw interleaved RGBA buffer,
// e.g. straight from a decoder. The buffer is read-only to the encoder and
// must hold exactly w*h*4 bytes.
func EncodeBuffer(pix []uint8, w, h int, opt Options) ([]*image.NRGBA, error) {
	if opt.Shares < minShares || opt.Shares > maxShares {
		return nil, fmt.Errorf("%w: got %d", ErrShareCount, opt.Shares)
	}
	if w <= 0 || h <= 0 || len(pix) != w*h*4 {
		return nil, fmt.Errorf("%w: %dx%d with %d bytes", ErrBufferSize, w, h, len(pix))
	}
	return encodeArena(rgba8{W: w, H: h, Pix: pix}, opt)
}

func encodeArena(src rgba8, opt Options) ([]*image.NRGBA, error) {
	shares := make([]*image.NRGBA, opt.Shares)
	for i := range shares {
		shares[i] = image.NewNRGBA(image.Rect(0, 0, 2*src.W, 2*src.H))
	}
	if opt.Workers > 1 && opt.Rand == nil {
		workers := min(opt.Workers, src.H)
		var wg sync.WaitGroup
		for k := range workers {
			y0 := k * src.H / workers
			y1 := (k + 1) * src.H / workers
			wg.Add(1)
			go func() {
				defer wg.Done()
				encodeRows(src, shares, opt, y0, y1, newWorkerRand())
			}()
		}
		wg.Wait()
		return shares, nil
	}
	rnd := opt.Rand
	if rnd == nil {
		rnd = globalRand{}
	}
	encodeRows(src, shares, opt, 0, src.H, rnd)
	return shares, nil
}

// encodeRows runs the per-pixel loop over scanlines [y0, y1). Each source
// pixel is three independent channel trials; the resulting masks are merged
// into one RGB-complete block per share.
func encodeRows(src rgba8, shares []*image.NRGBA, opt Options, y0, y1 int, rnd Rand) {
	n := len(shares)
	var inkR, inkG, inkB [maxShares]pattern
	for y := y0; y < y1; y++ {
		for x := range src.W {
			off := pixOffset(src.W, x, y)
			if src.Pix[off+3] < alphaCutoff {
				// Share buffers start zeroed, so the fully
				// transparent block is already in place.
				continue
			}
			r := src.Pix[off+0]
			g := src.Pix[off+1]
			b := src.Pix[off+2]
			if !opt.Color {
				lum := luminance(r, g, b)
				r, g, b = lum, lum, lum
			}
			generatePatterns(r, n, rnd, &inkR)
			generatePatterns(g, n, rnd, &inkG)
			generatePatterns(b, n, rnd, &inkB)
			for i := range n {
				writeBlock(shares[i], x, y, inkR[i], inkG[i], inkB[i])
			}
		}
	}
}

// luminance is the Rec. 601 luma of an RGB triple.
func luminance(r, g, b uint8) uint8 {
	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b) + 0.5)
}

func fromImage(img image.Image) rgba8 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	src := rgba8{W: w, H: h, Pix: make([]uint8, w*h*4)}
	if n, ok := img.(*image.NRGBA); ok {
		for y := range h {
			row := n.PixOffset(bounds.Min.X, bounds.Min.Y+y)
			copy(src.Pix[y*w*4:(y+1)*w*4], n.Pix[row:row+w*4])
		}
		return src
	}
	for y := range h {
		for x := range w {
			c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
			off := pixOffset(w, x, y)
			src.Pix[off+0] = c.R
			src.Pix[off+1] = c.G
			src.Pix[off+2] = c.B
			src.Pix[off+3] = c.A
		}
	}
	return src
}
