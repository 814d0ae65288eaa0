package timewarp_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"jumpcut/internal/timewarp"
)

func exampleMap(t *testing.T) *timewarp.Map {
	t.Helper()
	m, err := timewarp.New([]timewarp.Point{{Start: 0, Speed: 0}, {Start: 2, Speed: 1}, {Start: 5, Speed: 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestConvertSilentTailCollapses(t *testing.T) {
	m := exampleMap(t)
	tests := []struct{ in, want float64 }{
		{0, 0},
		{1.5, 0},
		{2, 0},
		{3.25, 1.25},
		{5, 3},
		{6, 3},
		{1e6, 3},
	}
	for _, tt := range tests {
		if got := m.Convert(tt.in); got != tt.want {
			t.Errorf("Convert(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertBeforeFirstPointUsesFirstSegment(t *testing.T) {
	m, err := timewarp.New([]timewarp.Point{{Start: 1, Speed: 2}, {Start: 3, Speed: 1}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.Convert(0.5); got != -1 {
		t.Fatalf("Convert(0.5) = %v, want -1", got)
	}
	if got := m.SegmentAt(-10); got.InputStart != 1 {
		t.Fatalf("SegmentAt(-10) = %+v", got)
	}
}

func TestSegmentsAccumulateOutput(t *testing.T) {
	m := exampleMap(t)
	segs := m.Segments()
	if len(segs) != 3 || m.Len() != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	want := []timewarp.Segment{
		{InputStart: 0, InputEnd: 2, OutputStart: 0, Speed: 0},
		{InputStart: 2, InputEnd: 5, OutputStart: 0, Speed: 1},
		{InputStart: 5, Open: true, OutputStart: 3, Speed: 0},
	}
	for i := range want {
		if segs[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, segs[i], want[i])
		}
	}
	segs[0].Speed = 99
	if m.Segment(0).Speed != 0 {
		t.Fatal("Segments exposed internal storage")
	}
}

func TestConvertReproducesOutputStartExactly(t *testing.T) {
	rng := rand.New(rand.NewPCG(17, 23))
	for trial := 0; trial < 100; trial++ {
		m := randomMap(t, rng)
		for i := 0; i < m.Len(); i++ {
			seg := m.Segment(i)
			if got := m.Convert(seg.InputStart); got != seg.OutputStart {
				t.Fatalf("trial %d: Convert(start_%d=%v) = %v, want exactly %v", trial, i, seg.InputStart, got, seg.OutputStart)
			}
		}
	}
}

func TestConvertIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(29, 31))
	for trial := 0; trial < 100; trial++ {
		m := randomMap(t, rng)
		last := m.Segment(m.Len() - 1)
		end := last.InputStart + 5
		prev := m.Convert(0)
		for step := 1; step <= 2000; step++ {
			x := end * float64(step) / 2000
			got := m.Convert(x)
			if got < prev-1e-9 {
				t.Fatalf("trial %d: Convert decreased at %v: %v < %v", trial, x, got, prev)
			}
			seg := m.SegmentAt(x)
			prevX := end * float64(step-1) / 2000
			if seg.Speed > 0 && prevX >= seg.InputStart && !(got > prev) {
				t.Fatalf("trial %d: Convert not strictly increasing inside positive segment at %v", trial, x)
			}
			prev = got
		}
	}
}

func TestNewRejectsInvalidTimelines(t *testing.T) {
	tests := []struct {
		name   string
		points []timewarp.Point
		want   error
	}{
		{"empty", nil, timewarp.ErrEmptyTimeline},
		{"unordered", []timewarp.Point{{Start: 1, Speed: 1}, {Start: 1, Speed: 0}}, timewarp.ErrInvalidTimeline},
		{"negative speed", []timewarp.Point{{Start: 0, Speed: -1}}, timewarp.ErrInvalidTimeline},
	}
	for _, tt := range tests {
		if _, err := timewarp.New(tt.points); !errors.Is(err, tt.want) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, err)
		}
	}
}

func TestSingleSegmentMap(t *testing.T) {
	m, err := timewarp.New([]timewarp.Point{{Start: 0, Speed: 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !m.Segment(0).Open {
		t.Fatal("expected the only segment to be open")
	}
	if got := m.Convert(42); got != 0 {
		t.Fatalf("Convert(42) = %v, want 0", got)
	}
}

func randomMap(t *testing.T, rng *rand.Rand) *timewarp.Map {
	t.Helper()
	n := 1 + rng.IntN(40)
	points := make([]timewarp.Point, n)
	frames := 0
	for i := range points {
		speeds := []float64{0, 0.1, 0.5, 1, 1.5, 2}
		points[i] = timewarp.Point{Start: float64(frames) * 0.01, Speed: speeds[rng.IntN(len(speeds))]}
		frames += 1 + rng.IntN(300)
	}
	m, err := timewarp.New(points)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}
