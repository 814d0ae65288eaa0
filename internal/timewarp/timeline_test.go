package timewarp_test

import (
	"errors"
	"slices"
	"testing"

	"jumpcut/internal/activity"
	"jumpcut/internal/services"
	"jumpcut/internal/timewarp"
)

func TestBuildTimelineFromMask(t *testing.T) {
	mask := []bool{false, false, true, true, true, false, false}
	runs, err := activity.EncodeRuns(activity.Pad(mask, 0))
	if err != nil {
		t.Fatalf("EncodeRuns: %v", err)
	}
	points, err := timewarp.BuildTimeline(runs, 1, timewarp.Speeds{Sounded: 1, Silent: 0})
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	want := []timewarp.Point{{Start: 0, Speed: 0}, {Start: 2, Speed: 1}, {Start: 5, Speed: 0}}
	if !slices.Equal(points, want) {
		t.Fatalf("points = %v, want %v", points, want)
	}
}

func TestBuildTimelineStartsAreFrameMultiples(t *testing.T) {
	runs := []activity.Run{{Active: true, Length: 3}, {Active: false, Length: 7}, {Active: true, Length: 13}}
	points, err := timewarp.BuildTimeline(runs, 0.01, timewarp.Speeds{Sounded: 1, Silent: 0.1})
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	wantStarts := []float64{0, 3 * 0.01, 10 * 0.01}
	for i, p := range points {
		if p.Start != wantStarts[i] {
			t.Fatalf("point %d start = %v, want %v", i, p.Start, wantStarts[i])
		}
	}
	if points[1].Speed != 0.1 || points[2].Speed != 1 {
		t.Fatalf("unexpected speeds %v", points)
	}
}

func TestBuildTimelineRejectsBadInput(t *testing.T) {
	if _, err := timewarp.BuildTimeline(nil, 0.01, timewarp.Speeds{}); !errors.Is(err, timewarp.ErrEmptyTimeline) {
		t.Fatalf("expected ErrEmptyTimeline, got %v", err)
	}
	runs := []activity.Run{{Active: true, Length: 1}}
	if _, err := timewarp.BuildTimeline(runs, 0, timewarp.Speeds{}); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if _, err := timewarp.BuildTimeline([]activity.Run{{Active: true, Length: 0}}, 1, timewarp.Speeds{}); !errors.Is(err, timewarp.ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline, got %v", err)
	}
}
