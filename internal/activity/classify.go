package activity

import (
	"fmt"
	"math"
	"slices"

	"jumpcut/internal/services"
)

var (
	// ErrEmptyLevels is returned when no loudness samples were supplied.
	ErrEmptyLevels = fmt.Errorf("%w: empty loudness sequence", services.ErrValidation)
	// ErrEmptyMask is returned when a mask with no frames is supplied.
	ErrEmptyMask = fmt.Errorf("%w: empty activity mask", services.ErrValidation)
	// ErrThreshold is returned for thresholds outside [0, 1).
	ErrThreshold = fmt.Errorf("%w: activity threshold must be in [0, 1)", services.ErrConfiguration)
)

// Cutoff returns the loudness value at rank floor(len*threshold) of the
// ascending-sorted samples. threshold is the fraction of frames meant to be
// classified silent.
func Cutoff(levels []float64, threshold float64) (float64, error) {
	if len(levels) == 0 {
		return 0, ErrEmptyLevels
	}
	if math.IsNaN(threshold) || threshold < 0 || threshold >= 1 {
		return 0, fmt.Errorf("%w (got %v)", ErrThreshold, threshold)
	}
	sorted := slices.Clone(levels)
	slices.Sort(sorted)
	rank := int(math.Floor(float64(len(sorted)) * threshold))
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank], nil
}

// Classify marks every frame louder than the percentile cutoff as active.
// A sequence of identical samples yields an all-false mask.
func Classify(levels []float64, threshold float64) ([]bool, error) {
	cutoff, err := Cutoff(levels, threshold)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(levels))
	for i, level := range levels {
		mask[i] = level > cutoff
	}
	return mask, nil
}

// KeepRatio reports the fraction of active frames in the mask.
func KeepRatio(mask []bool) float64 {
	if len(mask) == 0 {
		return 0
	}
	kept := 0
	for _, v := range mask {
		if v {
			kept++
		}
	}
	return float64(kept) / float64(len(mask))
}
