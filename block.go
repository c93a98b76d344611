package visualcrypt

import "image"

// slotOffsets maps slot index to its (dx, dy) inside the 2x2 expansion
// block: top-left, top-right, bottom-left, bottom-right.
var slotOffsets = [slotCount][2]int{
	{0, 0}, {1, 0}, {0, 1}, {1, 1},
}

// writeBlock commits one channel-complete 2x2 block for source pixel (x, y)
// into a share. Ink maps to channel value 0 and clear to 255, so multiply
// compositing of overlapping shares darkens exactly the ink-covered slots.
func writeBlock(share *image.NRGBA, x, y int, inkR, inkG, inkB pattern) {
	for s := range slotCount {
		off := share.PixOffset(2*x+slotOffsets[s][0], 2*y+slotOffsets[s][1])
		bit := pattern(1) << s
		share.Pix[off+0] = clearOrInk(inkR & bit)
		share.Pix[off+1] = clearOrInk(inkG & bit)
		share.Pix[off+2] = clearOrInk(inkB & bit)
		share.Pix[off+3] = 0xff
	}
}

func clearOrInk(bit pattern) uint8 {
	if bit != 0 {
		return 0
	}
	return 0xff
}
