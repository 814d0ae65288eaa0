package activity

// Run is a maximal stretch of frames sharing the same activity state.
type Run struct {
	Active bool
	Length int
}

// EncodeRuns collapses the mask into alternating runs whose lengths sum to
// len(mask).
func EncodeRuns(mask []bool) ([]Run, error) {
	if len(mask) == 0 {
		return nil, ErrEmptyMask
	}
	runs := make([]Run, 0, 8)
	current := Run{Active: mask[0], Length: 1}
	for _, v := range mask[1:] {
		if v == current.Active {
			current.Length++
			continue
		}
		runs = append(runs, current)
		current = Run{Active: v, Length: 1}
	}
	return append(runs, current), nil
}

// Flatten expands runs back into a per-frame mask.
func Flatten(runs []Run) []bool {
	total := 0
	for _, r := range runs {
		total += r.Length
	}
	mask := make([]bool, 0, total)
	for _, r := range runs {
		for range r.Length {
			mask = append(mask, r.Active)
		}
	}
	return mask
}
