package pipeline

import (
	"jumpcut/internal/activity"
	"jumpcut/internal/config"
	"jumpcut/internal/expression"
	"jumpcut/internal/timewarp"
)

// Settings is the configuration surface the planning stages consume.
type Settings struct {
	Threshold       float64
	PaddingSeconds  float64
	FrameLength     float64
	Speeds          timewarp.Speeds
	Limits          expression.Limits
	Precision       int
	SeamOverlap     float64
	OutOfDataPolicy string
}

// FromConfig projects a loaded configuration into Settings.
func FromConfig(cfg *config.Config) Settings {
	return Settings{
		Threshold:      cfg.Activity.Threshold,
		PaddingSeconds: cfg.Activity.PaddingSeconds,
		FrameLength:    cfg.Activity.FrameLengthSeconds,
		Speeds: timewarp.Speeds{
			Sounded: cfg.Speed.Sounded,
			Silent:  cfg.Speed.Silent,
		},
		Limits: expression.Limits{
			MaxLength: cfg.Expression.MaxLength,
			MaxDepth:  cfg.Expression.MaxDepth,
		},
		Precision:       cfg.Expression.Precision,
		SeamOverlap:     cfg.Expression.SeamOverlapSeconds,
		OutOfDataPolicy: cfg.Activity.OutOfDataPolicy,
	}
}

// PaddingFrames converts the padding duration into whole frames.
func (s Settings) PaddingFrames() int {
	return activity.PaddingFrames(s.PaddingSeconds, s.FrameLength)
}

func (s Settings) expressionOptions() expression.Options {
	return expression.Options{Precision: s.Precision}
}
