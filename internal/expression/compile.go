package expression

import (
	"fmt"
	"strings"

	"jumpcut/internal/services"
	"jumpcut/internal/timewarp"
)

var (
	// ErrLimitsUnsatisfiable is returned when a single segment cannot be
	// expressed within the configured limits.
	ErrLimitsUnsatisfiable = fmt.Errorf("%w: expression limits unsatisfiable", services.ErrConfiguration)
	// ErrInvalidLimits is returned for non-positive limits.
	ErrInvalidLimits = fmt.Errorf("%w: expression limits must be positive", services.ErrConfiguration)
)

// Limits bounds each emitted expression. Both bounds are inclusive.
type Limits struct {
	MaxLength int
	MaxDepth  int
}

// Chunk is an expression together with the input window it is valid for.
// PTS inside Expression is measured from WindowStart. The last chunk is Open
// and extends to the end of the input.
type Chunk struct {
	WindowStart float64
	WindowEnd   float64
	Open        bool
	Expression  string
	// Segments is the number of map segments the expression covers; its
	// nesting depth equals Segments.
	Segments int
}

// Contains reports whether input time t falls inside the chunk window.
func (c Chunk) Contains(t float64) bool {
	if t < c.WindowStart {
		return false
	}
	return c.Open || t < c.WindowEnd
}

// OutputAt evaluates the chunk expression at absolute input time t (seconds)
// for time base tb and returns the output time in seconds.
func (c Chunk) OutputAt(t, tb float64) (float64, error) {
	v, err := Evaluate(c.Expression, (t-c.WindowStart)/tb, tb)
	if err != nil {
		return 0, err
	}
	return v * tb, nil
}

// Full renders the whole map as a single expression with PTS measured from
// zero. Nesting grows with the number of segments.
func Full(m *timewarp.Map, opts Options) string {
	f := formatter{precision: opts.precision()}
	segs := m.Segments()
	var b strings.Builder
	for _, seg := range segs[:len(segs)-1] {
		b.WriteString(f.branchOpen(seg))
	}
	b.WriteString(f.linear(segs[len(segs)-1]))
	b.WriteString(strings.Repeat(")", len(segs)-1))
	return b.String()
}

// Chunked splits the map into consecutive windows, each as long as the limits
// allow. Segments are added to the current window one at a time; the window
// is closed at the last segment whose terminal form still fits and the next
// window starts at the following segment.
func Chunked(m *timewarp.Map, limits Limits, opts Options) ([]Chunk, error) {
	if limits.MaxLength <= 0 || limits.MaxDepth <= 0 {
		return nil, fmt.Errorf("%w (max_length=%d max_depth=%d)", ErrInvalidLimits, limits.MaxLength, limits.MaxDepth)
	}
	segs := m.Segments()
	var chunks []Chunk
	for first := 0; first < len(segs); {
		f := formatter{precision: opts.precision(), base: segs[first].InputStart}
		var prefix strings.Builder
		best, bestPrefix := -1, 0
		var bestTerminal string
		for k := first; k < len(segs); k++ {
			terminal := f.linear(segs[k])
			branches := k - first
			length := prefix.Len() + len(terminal) + branches
			// A terminal linear formula nests one level; each branch wraps it
			// in one more.
			depth := branches + 1
			if length > limits.MaxLength || depth > limits.MaxDepth {
				break
			}
			best, bestPrefix, bestTerminal = k, prefix.Len(), terminal
			if k+1 < len(segs) {
				prefix.WriteString(f.branchOpen(segs[k]))
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("%w: segment %d at %.3fs needs %d characters and depth 1 (max_length=%d max_depth=%d)",
				ErrLimitsUnsatisfiable, first, segs[first].InputStart, len(f.linear(segs[first])), limits.MaxLength, limits.MaxDepth)
		}
		count := best - first + 1
		chunk := Chunk{
			WindowStart: segs[first].InputStart,
			Expression:  prefix.String()[:bestPrefix] + bestTerminal + strings.Repeat(")", count-1),
			Segments:    count,
		}
		if best == len(segs)-1 {
			chunk.Open = true
		} else {
			chunk.WindowEnd = segs[best].InputEnd
		}
		chunks = append(chunks, chunk)
		first = best + 1
	}
	return chunks, nil
}
