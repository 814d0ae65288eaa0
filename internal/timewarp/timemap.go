package timewarp

import (
	"fmt"
	"math"
	"sort"
)

// Segment is one linear piece of the warp. The last segment of a Map is Open
// and extends to infinity; InputEnd is meaningless for it.
type Segment struct {
	InputStart  float64
	InputEnd    float64
	Open        bool
	OutputStart float64
	Speed       float64
}

// At evaluates the segment's linear formula at input time t.
func (s Segment) At(t float64) float64 {
	return s.OutputStart + (t-s.InputStart)*s.Speed
}

// OutputEnd returns the output time reached at the end of a closed segment.
func (s Segment) OutputEnd() float64 {
	if s.Open {
		return math.Inf(1)
	}
	return s.At(s.InputEnd)
}

// Map is an immutable piecewise-linear time warp.
type Map struct {
	segments []Segment
	starts   []float64
}

// New builds a Map from timeline points ordered by strictly increasing start.
// Output offsets are accumulated forwards once so Convert(start_i) returns
// exactly segment i's OutputStart.
func New(points []Point) (*Map, error) {
	if len(points) == 0 {
		return nil, ErrEmptyTimeline
	}
	segments := make([]Segment, len(points))
	starts := make([]float64, len(points))
	output := 0.0
	for i, p := range points {
		if math.IsNaN(p.Start) || math.IsInf(p.Start, 0) {
			return nil, fmt.Errorf("%w: point %d has non-finite start", ErrInvalidTimeline, i)
		}
		if math.IsNaN(p.Speed) || math.IsInf(p.Speed, 0) || p.Speed < 0 {
			return nil, fmt.Errorf("%w: point %d has invalid speed %v", ErrInvalidTimeline, i, p.Speed)
		}
		if i > 0 && !(p.Start > points[i-1].Start) {
			return nil, fmt.Errorf("%w: point %d start %v does not follow %v", ErrInvalidTimeline, i, p.Start, points[i-1].Start)
		}
		seg := Segment{InputStart: p.Start, OutputStart: output, Speed: p.Speed}
		if i+1 < len(points) {
			seg.InputEnd = points[i+1].Start
			output += (seg.InputEnd - seg.InputStart) * seg.Speed
		} else {
			seg.Open = true
		}
		segments[i] = seg
		starts[i] = p.Start
	}
	return &Map{segments: segments, starts: starts}, nil
}

// Convert maps an input time to output time. Times before the first point
// resolve to the first segment.
func (m *Map) Convert(t float64) float64 {
	return m.segments[m.index(t)].At(t)
}

// SegmentAt returns the segment whose [InputStart, InputEnd) contains t.
func (m *Map) SegmentAt(t float64) Segment {
	return m.segments[m.index(t)]
}

func (m *Map) index(t float64) int {
	i := sort.Search(len(m.starts), func(i int) bool { return m.starts[i] > t }) - 1
	if i < 0 {
		return 0
	}
	return i
}

// Len returns the number of segments.
func (m *Map) Len() int { return len(m.segments) }

// Segment returns segment i.
func (m *Map) Segment(i int) Segment { return m.segments[i] }

// Segments returns a copy of all segments in input order.
func (m *Map) Segments() []Segment {
	out := make([]Segment, len(m.segments))
	copy(out, m.segments)
	return out
}

// Start returns the input time of the first segment.
func (m *Map) Start() float64 { return m.starts[0] }
