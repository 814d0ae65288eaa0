package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"jumpcut/internal/analysiscache"
	"jumpcut/internal/config"
	"jumpcut/internal/logging"
	"jumpcut/internal/media/audio"
	"jumpcut/internal/media/ffprobe"
	"jumpcut/internal/pipeline"
	"jumpcut/internal/services"
)

const stageAnalyze = "analyze"

// sourceAnalysis is everything the commands derive from one media file
// before planning.
type sourceAnalysis struct {
	Source     string
	Probe      ffprobe.Result
	Audio      audio.Selection
	Levels     []float64
	SampleRate int
	Cached     bool
}

// resolveSource returns the absolute path of an existing regular file.
func resolveSource(arg string) (string, error) {
	source := strings.TrimSpace(arg)
	if source == "" {
		return "", fmt.Errorf("%w: source file path is required", services.ErrValidation)
	}
	source, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("resolve source: %w", err)
	}
	info, err := os.Stat(source)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: source file %q not found", services.ErrValidation, source)
		}
		return "", fmt.Errorf("stat source: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: source path %q is a directory", services.ErrValidation, source)
	}
	return source, nil
}

func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*analysiscache.Cache, error) {
	path := ""
	if cfg.Cache.Enabled {
		path = cfg.Paths.CachePath
	}
	return analysiscache.Open(ctx, path, logger)
}

// analyzeSource probes source, picks its audio stream, and measures loudness,
// consulting the analysis cache first.
func (c *commandContext) analyzeSource(ctx context.Context, source, language string, refresh bool) (*sourceAnalysis, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	ctx = services.WithStage(ctx, stageAnalyze)
	ctx = services.WithSource(ctx, source)
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "analyze"))

	probe, err := ffprobe.Inspect(ctx, cfg.Tools.FFprobe, source)
	if err != nil {
		return nil, err
	}
	selection := audio.Select(probe.Streams, language)
	if !selection.Found() {
		return nil, fmt.Errorf("%w: %s has no audio stream", services.ErrValidation, source)
	}
	result := &sourceAnalysis{Source: source, Probe: probe, Audio: selection}

	cache, err := openCache(ctx, cfg, logger)
	if err != nil {
		logging.WarnWithContext(logger, "analysis cache unavailable", "analysiscache_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "run `jumpcut cache clear` or delete "+cfg.Paths.CachePath),
			logging.String(logging.FieldImpact, "loudness is recomputed on every run"),
		)
		cache, _ = analysiscache.Open(ctx, "", logger)
	}
	defer cache.Close()

	frameLength := cfg.Activity.FrameLengthSeconds
	key, err := analysiscache.KeyFor(source, frameLength, selection.MapSpecifier())
	if err != nil {
		return nil, err
	}
	if !refresh {
		entry, ok, lookupErr := cache.Lookup(ctx, key)
		if lookupErr != nil {
			logger.Debug("cache lookup failed", logging.Error(lookupErr))
		}
		if ok {
			logger.Debug("loudness served from cache", logging.Int("frames", len(entry.Levels)))
			result.Levels = entry.Levels
			result.SampleRate = entry.SampleRate
			result.Cached = true
			return result, nil
		}
	}

	workDir, err := os.MkdirTemp(cfg.Paths.WorkDir, "analyze-")
	if err != nil {
		return nil, fmt.Errorf("create analysis directory: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "mono.wav")
	logger.Info("extracting audio",
		logging.String(logging.FieldEventType, "audio_extract"),
		logging.String("stream", selection.Label()),
	)
	opts := audio.ExtractOptions{Map: selection.MapSpecifier(), Mono: true}
	if err := audio.ExtractWAV(ctx, cfg.Tools.FFmpeg, source, wavPath, opts); err != nil {
		return nil, err
	}
	levels, info, err := audio.FrameLevels(wavPath, frameLength)
	if err != nil {
		return nil, err
	}
	result.Levels = levels
	result.SampleRate = info.SampleRate
	if err := cache.Store(ctx, key, info.SampleRate, levels); err != nil {
		logging.WarnWithContext(logger, "failed to cache loudness", "analysiscache_store_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on "+cfg.Paths.CachePath),
			logging.String(logging.FieldImpact, "next run re-extracts audio"),
		)
	}
	logger.Info("loudness measured",
		logging.Int("frames", len(levels)),
		logging.Int("sample_rate", info.SampleRate),
		logging.Seconds("frame", info.FrameSeconds()),
	)
	return result, nil
}

// planSource analyses source and builds its plan from the loaded settings.
func (c *commandContext) planSource(ctx context.Context, source, language string, refresh bool) (*sourceAnalysis, *pipeline.Plan, error) {
	analysis, err := c.analyzeSource(ctx, source, language, refresh)
	if err != nil {
		return nil, nil, err
	}
	cfg, _ := c.ensureConfig()
	logger, _ := c.ensureLogger()
	ctx = services.WithSource(ctx, source)
	plan, err := pipeline.BuildPlan(ctx, analysis.Levels, pipeline.FromConfig(cfg), logger)
	if err != nil {
		return nil, nil, err
	}
	return analysis, plan, nil
}
