package visualcrypt

// A pattern is a 4-bit ink mask over the 2x2 expansion block; bit s set means
// slot s carries ink in one share for one channel.
type pattern uint8

const allSlots pattern = 0b1111

const (
	minShares = 2
	maxShares = 4
	slotCount = 4
)

// Threshold window for the dark/light split, nominal 128 +- 30. The jitter
// is a dithering step: mid-gray regions classify differently from pixel to
// pixel, which breaks up banding in the stacked result. It carries no
// security weight and must be drawn fresh per (pixel, channel).
const (
	thresholdLo = 98
	thresholdHi = 158
)

// coverings[n] lists, per share, which two permuted slots carry ink when the
// target is dark. Every row has weight 2 and the rows union to all four
// slots: any single share stays at exactly half ink while the stack of all n
// goes fully dark. With this block size four shares is the ceiling; larger
// counts cannot keep both properties and are rejected up front.
var coverings = [maxShares + 1][][2]int{
	2: {{0, 1}, {2, 3}},
	3: {{0, 1}, {1, 2}, {2, 3}},
	4: {{0, 1}, {1, 2}, {2, 3}, {3, 0}},
}

// generatePatterns fills out[:n] with one ink mask per share for a single
// channel intensity. Light targets hand every share the same permuted pair;
// dark targets walk adjacent pairs along the permuted ring.
func generatePatterns(intensity uint8, n int, rnd Rand, out *[maxShares]pattern) {
	threshold := thresholdLo + rnd.IntN(thresholdHi-thresholdLo+1)

	var p [slotCount]int
	permute(&p, rnd)

	if int(intensity) >= threshold {
		ink := pattern(1<<p[0] | 1<<p[1])
		for i := range n {
			out[i] = ink
		}
		return
	}
	for i, pair := range coverings[n] {
		out[i] = pattern(1<<p[pair[0]] | 1<<p[pair[1]])
	}
}

// permute writes a uniform Fisher-Yates permutation of {0,1,2,3} into p.
func permute(p *[slotCount]int, rnd Rand) {
	for i := range p {
		p[i] = i
	}
	for i := slotCount - 1; i > 0; i-- {
		j := rnd.IntN(i + 1)
		p[i], p[j] = p[j], p[i]
	}
}
