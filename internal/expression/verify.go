package expression

import (
	"errors"
	"fmt"
	"math"

	"jumpcut/internal/services"
	"jumpcut/internal/timewarp"
)

// ErrMismatch is returned by Verify when an expression disagrees with the map.
var ErrMismatch = fmt.Errorf("%w: expression disagrees with time map", services.ErrInvariant)

// Tolerance is the largest output error rounding at the given precision can
// introduce for a map whose fastest segment runs at maxSpeed.
func Tolerance(opts Options, maxSpeed float64) float64 {
	return math.Pow(10, -float64(opts.precision())) * (1 + math.Abs(maxSpeed))
}

// Verify evaluates every chunk at the start and midpoint of each segment it
// covers and compares the result with m.Convert. Chunk windows must be
// contiguous and the final chunk open.
func Verify(m *timewarp.Map, chunks []Chunk, tb float64, opts Options) error {
	if len(chunks) == 0 {
		return errors.New("no chunks to verify")
	}
	if tb <= 0 {
		return fmt.Errorf("%w: time base must be positive", services.ErrValidation)
	}
	segs := m.Segments()
	maxSpeed := 0.0
	for _, seg := range segs {
		maxSpeed = max(maxSpeed, math.Abs(seg.Speed))
	}
	tol := Tolerance(opts, maxSpeed)

	if chunks[0].WindowStart != segs[0].InputStart {
		return fmt.Errorf("%w: first window starts at %g, map at %g", ErrMismatch, chunks[0].WindowStart, segs[0].InputStart)
	}
	for i := 1; i < len(chunks); i++ {
		if chunks[i].WindowStart != chunks[i-1].WindowEnd || chunks[i-1].Open {
			return fmt.Errorf("%w: window %d is not contiguous with window %d", ErrMismatch, i, i-1)
		}
	}
	if !chunks[len(chunks)-1].Open {
		return fmt.Errorf("%w: final window is closed", ErrMismatch)
	}

	c := 0
	for _, seg := range segs {
		for !chunks[c].Contains(seg.InputStart) {
			c++
			if c >= len(chunks) {
				return fmt.Errorf("%w: no window covers %gs", ErrMismatch, seg.InputStart)
			}
		}
		probes := []float64{seg.InputStart}
		if !seg.Open {
			probes = append(probes, (seg.InputStart+seg.InputEnd)/2)
		} else {
			probes = append(probes, seg.InputStart+1)
		}
		for _, t := range probes {
			got, err := chunks[c].OutputAt(t, tb)
			if err != nil {
				return fmt.Errorf("window %d: %w", c, err)
			}
			want := m.Convert(t)
			if math.Abs(got-want) > tol {
				return fmt.Errorf("%w: window %d at %gs gives %g, want %g", ErrMismatch, c, t, got, want)
			}
		}
	}
	return nil
}
