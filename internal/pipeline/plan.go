package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"jumpcut/internal/activity"
	"jumpcut/internal/expression"
	"jumpcut/internal/logging"
	"jumpcut/internal/services"
	"jumpcut/internal/timewarp"
)

const stagePlan = "plan"

// Plan is everything derived from one loudness sequence.
type Plan struct {
	Settings Settings
	Frames   int
	Cutoff   float64
	// Mask is the raw classification; Padded is what the timeline uses.
	Mask     []bool
	Padded   []bool
	Runs     []activity.Run
	Timeline []timewarp.Point
	Map      *timewarp.Map
	Chunks   []expression.Chunk
}

// InputDuration is the analysed length of the input in seconds.
func (p *Plan) InputDuration() float64 {
	return float64(p.Frames) * p.Settings.FrameLength
}

// OutputDuration is the warped length of the analysed input.
func (p *Plan) OutputDuration() float64 {
	return p.Map.Convert(p.InputDuration())
}

// KeepRatios returns the fraction of active frames before and after padding.
func (p *Plan) KeepRatios() (raw, padded float64) {
	return activity.KeepRatio(p.Mask), activity.KeepRatio(p.Padded)
}

// BuildPlan classifies levels, pads the mask, and compiles the chunked
// expressions. Any stage failure aborts the plan.
func BuildPlan(ctx context.Context, levels []float64, settings Settings, logger *slog.Logger) (*Plan, error) {
	ctx = services.WithStage(ctx, stagePlan)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "pipeline"))

	cutoff, err := activity.Cutoff(levels, settings.Threshold)
	if err != nil {
		return nil, fmt.Errorf("compute loudness cutoff: %w", err)
	}
	mask, err := activity.Classify(levels, settings.Threshold)
	if err != nil {
		return nil, fmt.Errorf("classify frames: %w", err)
	}
	padded := activity.Pad(mask, settings.PaddingFrames())
	runs, err := activity.EncodeRuns(padded)
	if err != nil {
		return nil, fmt.Errorf("encode runs: %w", err)
	}
	points, err := timewarp.BuildTimeline(runs, settings.FrameLength, settings.Speeds)
	if err != nil {
		return nil, fmt.Errorf("build timeline: %w", err)
	}
	m, err := timewarp.New(points)
	if err != nil {
		return nil, fmt.Errorf("build time map: %w", err)
	}
	chunks, err := expression.Chunked(m, settings.Limits, settings.expressionOptions())
	if err != nil {
		return nil, fmt.Errorf("compile expressions: %w", err)
	}

	plan := &Plan{
		Settings: settings,
		Frames:   len(levels),
		Cutoff:   cutoff,
		Mask:     mask,
		Padded:   padded,
		Runs:     runs,
		Timeline: points,
		Map:      m,
		Chunks:   chunks,
	}
	raw, kept := plan.KeepRatios()
	logger.Info("plan built",
		logging.Int("frames", plan.Frames),
		logging.Float64("cutoff", cutoff),
		logging.String("keep_raw", percent(raw)),
		logging.String("keep_padded", percent(kept)),
		logging.Int("segments", m.Len()),
		logging.Int("chunks", len(chunks)),
		logging.Seconds("input", plan.InputDuration()),
		logging.Seconds("output", plan.OutputDuration()),
	)
	return plan, nil
}

// Verify evaluates every compiled chunk against the time map with time base
// tb.
func (p *Plan) Verify(tb float64) error {
	if err := expression.Verify(p.Map, p.Chunks, tb, p.Settings.expressionOptions()); err != nil {
		return services.Wrap(services.ErrInvariant, stagePlan, "verify", "chunk verification failed", err)
	}
	return nil
}

// CheckRenderSupport rejects speed combinations the renderer cannot produce.
// Audio is cut frame by frame rather than time-stretched, so only sounded
// speed 1 with silent speed 0 keeps audio and video aligned.
func CheckRenderSupport(speeds timewarp.Speeds) error {
	if speeds.Sounded == 1 && speeds.Silent == 0 {
		return nil
	}
	return fmt.Errorf("%w: rendering requires sounded speed 1 and silent speed 0 (got sounded=%v silent=%v)",
		services.ErrNotSupported, speeds.Sounded, speeds.Silent)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
