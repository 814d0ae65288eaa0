package activity

import "math"

// PaddingFrames converts a padding duration into whole frames, truncating
// partial frames.
func PaddingFrames(seconds, frameLength float64) int {
	if seconds <= 0 || frameLength <= 0 {
		return 0
	}
	// Tolerate representation error such as 0.03/0.01 = 2.9999999999999996.
	return int(math.Floor(seconds/frameLength + 1e-9))
}

// Pad returns a copy of mask with every active run extended by padding frames
// on both sides. Rising edges extend the run backwards, falling edges extend
// it forwards, and both are clamped to the mask bounds. Edges are detected on
// the input mask, so overlapping extensions merge into their union.
func Pad(mask []bool, padding int) []bool {
	out := make([]bool, len(mask))
	copy(out, mask)
	if padding <= 0 || len(mask) < 2 {
		return out
	}
	for i := 1; i < len(mask); i++ {
		prev, cur := mask[i-1], mask[i]
		switch {
		case !prev && cur:
			for j := max(0, i-padding); j < i; j++ {
				out[j] = true
			}
		case prev && !cur:
			for j := i; j < min(i+padding, len(mask)); j++ {
				out[j] = true
			}
		}
	}
	return out
}
