package timewarp

import (
	"fmt"
	"math"

	"jumpcut/internal/activity"
	"jumpcut/internal/services"
)

var (
	// ErrEmptyTimeline is returned when a timeline has no control points.
	ErrEmptyTimeline = fmt.Errorf("%w: empty timeline", services.ErrValidation)
	// ErrInvalidTimeline is returned for unordered starts or invalid speeds.
	ErrInvalidTimeline = fmt.Errorf("%w: invalid timeline", services.ErrValidation)
)

// Point is a timeline control point: from Start onwards input time advances
// output time at Speed until the next point.
type Point struct {
	Start float64
	Speed float64
}

// Speeds maps activity state to playback speed.
type Speeds struct {
	Sounded float64
	Silent  float64
}

// For returns the speed for the given activity state.
func (s Speeds) For(active bool) float64 {
	if active {
		return s.Sounded
	}
	return s.Silent
}

// BuildTimeline emits one point per run, starting at the elapsed input time
// of that run. The last run contributes only its start.
func BuildTimeline(runs []activity.Run, frameLength float64, speeds Speeds) ([]Point, error) {
	if len(runs) == 0 {
		return nil, ErrEmptyTimeline
	}
	if !(frameLength > 0) || math.IsInf(frameLength, 0) {
		return nil, fmt.Errorf("%w: frame length must be positive (got %v)", services.ErrConfiguration, frameLength)
	}
	points := make([]Point, 0, len(runs))
	frames := 0
	for i, run := range runs {
		if run.Length < 1 {
			return nil, fmt.Errorf("%w: run %d has length %d", ErrInvalidTimeline, i, run.Length)
		}
		// Multiply the integer frame count rather than summing durations so
		// starts carry no accumulated rounding.
		points = append(points, Point{Start: float64(frames) * frameLength, Speed: speeds.For(run.Active)})
		frames += run.Length
	}
	return points, nil
}
