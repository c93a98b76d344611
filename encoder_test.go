package visualcrypt

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math/bits"
	"testing"
)

func pixelImage(c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, c)
	return img
}

// gradientImage ramps luminance left to right with full alpha.
func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			v := uint8(x * 255 / max(w-1, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

// inkMask reads back the 4-slot ink mask of one channel of the block for
// source pixel (x, y).
func inkMask(share *image.NRGBA, x, y, ch int) pattern {
	var m pattern
	for s := range slotCount {
		off := share.PixOffset(2*x+slotOffsets[s][0], 2*y+slotOffsets[s][1])
		if share.Pix[off+3] == 0xff && share.Pix[off+ch] == 0 {
			m |= pattern(1) << s
		}
	}
	return m
}

func TestEncodeRejectsShareCount(t *testing.T) {
	img := pixelImage(color.NRGBA{A: 255})
	for _, n := range []int{-1, 0, 1, 5, 8} {
		shares, err := Encode(img, Options{Shares: n})
		if !errors.Is(err, ErrShareCount) {
			t.Fatalf("Shares=%d: err = %v, want ErrShareCount", n, err)
		}
		if shares != nil {
			t.Fatalf("Shares=%d: got %d buffers alongside the error", n, len(shares))
		}
		if _, err := EncodeBuffer(make([]uint8, 4), 1, 1, Options{Shares: n}); !errors.Is(err, ErrShareCount) {
			t.Fatalf("EncodeBuffer Shares=%d: err = %v, want ErrShareCount", n, err)
		}
	}
}

func TestEncodeBufferValidation(t *testing.T) {
	opt := Options{Shares: 2}
	for _, tc := range []struct {
		name string
		pix  int
		w, h int
	}{
		{"short buffer", 4, 2, 2},
		{"long buffer", 32, 2, 2},
		{"zero width", 16, 0, 4},
		{"negative height", 16, 4, -1},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := EncodeBuffer(make([]uint8, tc.pix), tc.w, tc.h, opt); !errors.Is(err, ErrBufferSize) {
				t.Fatalf("err = %v, want ErrBufferSize", err)
			}
		})
	}
	if _, err := EncodeBuffer(make([]uint8, 16), 2, 2, opt); err != nil {
		t.Fatalf("valid buffer rejected: %v", err)
	}
}

func TestDimensionLaw(t *testing.T) {
	img := gradientImage(3, 2)
	for n := minShares; n <= maxShares; n++ {
		shares, err := Encode(img, Options{Shares: n, Color: true})
		if err != nil {
			t.Fatal(err)
		}
		if len(shares) != n {
			t.Fatalf("got %d shares, want %d", len(shares), n)
		}
		for i, s := range shares {
			if b := s.Bounds(); b.Dx() != 6 || b.Dy() != 4 {
				t.Fatalf("share %d: bounds %v, want 6x4", i, b)
			}
		}
	}
}

// A white pixel forced light: every share carries the identical half-ink
// block, here slots {0,1} under the scripted identity permutation.
func TestEncodeWhiteLight(t *testing.T) {
	img := pixelImage(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	shares, err := Encode(img, Options{Shares: 2, Rand: lightRand()})
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range shares {
		for ch := range 3 {
			if m := inkMask(s, 0, 0, ch); m != 0b0011 {
				t.Fatalf("share %d ch %d: mask %04b, want 0011", i, ch, m)
			}
		}
		for slot := range slotCount {
			off := s.PixOffset(slotOffsets[slot][0], slotOffsets[slot][1])
			if s.Pix[off+3] != 0xff {
				t.Fatalf("share %d slot %d: alpha %d, want 255", i, slot, s.Pix[off+3])
			}
		}
	}
}

// A black pixel is dark under every threshold: the two shares' ink sets are
// disjoint and union to the whole block.
func TestEncodeBlackDark(t *testing.T) {
	img := pixelImage(color.NRGBA{A: 255})
	shares, err := Encode(img, Options{Shares: 2, Rand: seededRand(11, 12)})
	if err != nil {
		t.Fatal(err)
	}
	for ch := range 3 {
		m0 := inkMask(shares[0], 0, 0, ch)
		m1 := inkMask(shares[1], 0, 0, ch)
		if m0&m1 != 0 || m0|m1 != allSlots {
			t.Fatalf("ch %d: masks %04b and %04b are not a disjoint cover", ch, m0, m1)
		}
	}
}

func TestEncodeBlackThreeShares(t *testing.T) {
	img := pixelImage(color.NRGBA{A: 255})
	shares, err := Encode(img, Options{Shares: 3, Rand: seededRand(13, 14)})
	if err != nil {
		t.Fatal(err)
	}
	for ch := range 3 {
		var union pattern
		for i, s := range shares {
			m := inkMask(s, 0, 0, ch)
			if bits.OnesCount8(uint8(m)) != 2 {
				t.Fatalf("share %d ch %d: mask %04b, want 2 ink bits", i, ch, m)
			}
			union |= m
		}
		if union != allSlots {
			t.Fatalf("ch %d: union %04b does not cover the block", ch, union)
		}
	}
}

// Mid-gray sampled with a threshold forcing light: all shares and channels
// agree on the ink pair.
func TestEncodeMidGrayForcedLight(t *testing.T) {
	img := pixelImage(color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	shares, err := Encode(img, Options{Shares: 4, Rand: lightRand()})
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range shares {
		for ch := range 3 {
			if m := inkMask(s, 0, 0, ch); m != 0b0011 {
				t.Fatalf("share %d ch %d: mask %04b, want 0011", i, ch, m)
			}
		}
	}
}

func TestTransparencyPassThrough(t *testing.T) {
	for _, alpha := range []uint8{0, 49} {
		img := pixelImage(color.NRGBA{R: 200, G: 100, B: 50, A: alpha})
		shares, err := Encode(img, Options{Shares: 3, Color: true, Rand: seededRand(15, 16)})
		if err != nil {
			t.Fatal(err)
		}
		for i, s := range shares {
			for _, p := range s.Pix {
				if p != 0 {
					t.Fatalf("alpha=%d share %d: non-zero byte in a transparent block", alpha, i)
				}
			}
		}
	}
	// Alpha at the cutoff encodes normally.
	img := pixelImage(color.NRGBA{R: 200, G: 100, B: 50, A: alphaCutoff})
	shares, err := Encode(img, Options{Shares: 2, Rand: seededRand(17, 18)})
	if err != nil {
		t.Fatal(err)
	}
	off := shares[0].PixOffset(0, 0)
	if shares[0].Pix[off+3] != 0xff {
		t.Fatal("alpha at the cutoff produced a transparent block")
	}
}

// Grayscale mode feeds the same luminance to all three channels, but each
// channel still runs its own randomized trial, so the per-channel masks must
// not be locked together.
func TestGrayscaleChannelsIndependent(t *testing.T) {
	img := pixelImage(color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	rnd := seededRand(19, 20)
	for range 50 {
		shares, err := Encode(img, Options{Shares: 2, Color: false, Rand: rnd})
		if err != nil {
			t.Fatal(err)
		}
		r := inkMask(shares[0], 0, 0, 0)
		g := inkMask(shares[0], 0, 0, 1)
		b := inkMask(shares[0], 0, 0, 2)
		if r != g || g != b {
			return
		}
	}
	t.Fatal("channel masks identical across 50 encodes; trials are not independent")
}

func TestEncodeDeterministicWithSeed(t *testing.T) {
	img := gradientImage(16, 8)
	a, err := Encode(img, Options{Shares: 3, Color: true, Rand: seededRand(21, 22)})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Encode(img, Options{Shares: 3, Color: true, Rand: seededRand(21, 22)})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if !bytes.Equal(a[i].Pix, b[i].Pix) {
			t.Fatalf("share %d differs between identically seeded runs", i)
		}
	}
}

func TestEncodeWorkers(t *testing.T) {
	img := gradientImage(32, 17) // odd height to exercise uneven bands
	shares, err := Encode(img, Options{Shares: 4, Color: true, Workers: 4})
	if err != nil {
		t.Fatal(err)
	}
	for y := range 17 {
		for x := range 32 {
			for ch := range 3 {
				var union pattern
				for i, s := range shares {
					m := inkMask(s, x, y, ch)
					if bits.OnesCount8(uint8(m)) != 2 {
						t.Fatalf("pixel (%d,%d) share %d ch %d: mask %04b", x, y, i, ch, m)
					}
					union |= m
				}
				if union == 0 {
					t.Fatalf("pixel (%d,%d) ch %d: no ink written", x, y, ch)
				}
			}
		}
	}
}
