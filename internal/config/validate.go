package config

import (
	"fmt"
	"math"

	"jumpcut/internal/services"
)

// Validate ensures the configuration is usable. Errors carry the
// services.ErrConfiguration marker and name the offending key.
func (c *Config) Validate() error {
	if err := c.validateActivity(); err != nil {
		return err
	}
	if err := c.validateSpeed(); err != nil {
		return err
	}
	if err := c.validateExpression(); err != nil {
		return err
	}
	return c.validateLogging()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", services.ErrConfiguration, fmt.Sprintf(format, args...))
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (c *Config) validateActivity() error {
	a := c.Activity
	if !finite(a.Threshold) || a.Threshold < 0 || a.Threshold >= 1 {
		return invalid("activity.threshold must be in [0, 1), got %v", a.Threshold)
	}
	if !finite(a.PaddingSeconds) || a.PaddingSeconds < 0 {
		return invalid("activity.padding_seconds must be >= 0, got %v", a.PaddingSeconds)
	}
	if !finite(a.FrameLengthSeconds) || a.FrameLengthSeconds <= 0 {
		return invalid("activity.frame_length_seconds must be > 0, got %v", a.FrameLengthSeconds)
	}
	switch a.OutOfDataPolicy {
	case PolicyKeep, PolicyDrop, PolicyError:
	default:
		return invalid("activity.out_of_data_policy must be keep, drop, or error, got %q", a.OutOfDataPolicy)
	}
	return nil
}

func (c *Config) validateSpeed() error {
	if !finite(c.Speed.Sounded) || c.Speed.Sounded < 0 {
		return invalid("speed.sounded must be >= 0, got %v", c.Speed.Sounded)
	}
	if !finite(c.Speed.Silent) || c.Speed.Silent < 0 {
		return invalid("speed.silent must be >= 0, got %v", c.Speed.Silent)
	}
	return nil
}

func (c *Config) validateExpression() error {
	e := c.Expression
	if e.MaxLength <= 0 {
		return invalid("expression.max_length must be > 0, got %d", e.MaxLength)
	}
	if e.MaxDepth <= 0 {
		return invalid("expression.max_depth must be > 0, got %d", e.MaxDepth)
	}
	if e.Precision < 1 || e.Precision > 9 {
		return invalid("expression.precision must be in [1, 9], got %d", e.Precision)
	}
	if !finite(e.SeamOverlapSeconds) || e.SeamOverlapSeconds < 0 {
		return invalid("expression.seam_overlap_seconds must be >= 0, got %v", e.SeamOverlapSeconds)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return invalid("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
