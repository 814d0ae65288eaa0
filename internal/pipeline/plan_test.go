package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"jumpcut/internal/activity"
	"jumpcut/internal/config"
	"jumpcut/internal/expression"
	"jumpcut/internal/logging"
	"jumpcut/internal/pipeline"
	"jumpcut/internal/services"
	"jumpcut/internal/timewarp"
)

func unitSettings() pipeline.Settings {
	return pipeline.Settings{
		Threshold:   0.5,
		FrameLength: 1,
		Speeds:      timewarp.Speeds{Sounded: 1, Silent: 0},
		Limits:      expression.Limits{MaxLength: 32767, MaxDepth: 100},
		Precision:   3,
	}
}

func TestBuildPlanEndToEnd(t *testing.T) {
	levels := []float64{0, 0, 5, 5, 5, 0, 0}
	plan, err := pipeline.BuildPlan(context.Background(), levels, unitSettings(), logging.NewNop())
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}

	wantMask := []bool{false, false, true, true, true, false, false}
	for i := range wantMask {
		if plan.Mask[i] != wantMask[i] || plan.Padded[i] != wantMask[i] {
			t.Fatalf("mask = %v padded = %v, want %v", plan.Mask, plan.Padded, wantMask)
		}
	}
	wantTimeline := []timewarp.Point{{Start: 0, Speed: 0}, {Start: 2, Speed: 1}, {Start: 5, Speed: 0}}
	if len(plan.Timeline) != len(wantTimeline) {
		t.Fatalf("timeline = %v, want %v", plan.Timeline, wantTimeline)
	}
	for i := range wantTimeline {
		if plan.Timeline[i] != wantTimeline[i] {
			t.Fatalf("timeline = %v, want %v", plan.Timeline, wantTimeline)
		}
	}
	for _, tc := range []struct{ in, want float64 }{{2, 0}, {5, 3}, {6, 3}} {
		if got := plan.Map.Convert(tc.in); got != tc.want {
			t.Errorf("Convert(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if plan.InputDuration() != 7 || plan.OutputDuration() != 3 {
		t.Fatalf("durations = %v -> %v, want 7 -> 3", plan.InputDuration(), plan.OutputDuration())
	}
	if raw, padded := plan.KeepRatios(); raw != 3.0/7 || padded != 3.0/7 {
		t.Fatalf("keep ratios = %v, %v", raw, padded)
	}
	if len(plan.Chunks) != 1 || !plan.Chunks[0].Open {
		t.Fatalf("expected one open chunk, got %+v", plan.Chunks)
	}
	if err := plan.Verify(0.001); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestBuildPlanPaddingWidensRuns(t *testing.T) {
	settings := unitSettings()
	settings.PaddingSeconds = 1
	plan, err := pipeline.BuildPlan(context.Background(), []float64{0, 0, 0, 5, 0, 0, 0}, settings, nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	want := []activity.Run{{Active: false, Length: 2}, {Active: true, Length: 3}, {Active: false, Length: 2}}
	if len(plan.Runs) != len(want) {
		t.Fatalf("runs = %v, want %v", plan.Runs, want)
	}
	for i := range want {
		if plan.Runs[i] != want[i] {
			t.Fatalf("runs = %v, want %v", plan.Runs, want)
		}
	}
}

func TestBuildPlanSingleStateCompilesOneChunk(t *testing.T) {
	levels := []float64{3, 3, 3, 3}
	plan, err := pipeline.BuildPlan(context.Background(), levels, unitSettings(), nil)
	if err != nil {
		t.Fatalf("BuildPlan: %v", err)
	}
	if plan.Map.Len() != 1 || len(plan.Chunks) != 1 || !plan.Chunks[0].Open {
		t.Fatalf("expected single segment and chunk, got %d segments %+v", plan.Map.Len(), plan.Chunks)
	}
	if plan.OutputDuration() != 0 {
		t.Fatalf("all-silent input should collapse, got %v", plan.OutputDuration())
	}
}

func TestBuildPlanErrors(t *testing.T) {
	if _, err := pipeline.BuildPlan(context.Background(), nil, unitSettings(), nil); !errors.Is(err, activity.ErrEmptyLevels) {
		t.Fatalf("expected ErrEmptyLevels, got %v", err)
	}

	tight := unitSettings()
	tight.Limits = expression.Limits{MaxLength: 4, MaxDepth: 100}
	_, err := pipeline.BuildPlan(context.Background(), []float64{0, 5, 0}, tight, nil)
	if !errors.Is(err, expression.ErrLimitsUnsatisfiable) {
		t.Fatalf("expected ErrLimitsUnsatisfiable, got %v", err)
	}
	if services.ExitCode(err) != services.ExitConfiguration {
		t.Fatalf("exit code = %d", services.ExitCode(err))
	}
}

func TestCheckRenderSupport(t *testing.T) {
	if err := pipeline.CheckRenderSupport(timewarp.Speeds{Sounded: 1, Silent: 0}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, speeds := range []timewarp.Speeds{{Sounded: 2, Silent: 0}, {Sounded: 1, Silent: 0.5}} {
		if err := pipeline.CheckRenderSupport(speeds); !errors.Is(err, services.ErrNotSupported) {
			t.Errorf("%+v: expected ErrNotSupported, got %v", speeds, err)
		}
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Activity.PaddingSeconds = 0.05
	s := pipeline.FromConfig(&cfg)
	if s.Threshold != 0.7 || s.FrameLength != 0.01 || s.Limits.MaxLength != 32767 || s.Limits.MaxDepth != 100 {
		t.Fatalf("unexpected settings: %+v", s)
	}
	if s.PaddingFrames() != 5 {
		t.Fatalf("PaddingFrames = %d, want 5", s.PaddingFrames())
	}
	if s.OutOfDataPolicy != config.PolicyKeep {
		t.Fatalf("policy = %q", s.OutOfDataPolicy)
	}
}
