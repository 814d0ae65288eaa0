package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"jumpcut/internal/fileutil"
	"jumpcut/internal/logging"
	"jumpcut/internal/media/audio"
	"jumpcut/internal/pipeline"
	"jumpcut/internal/services"
	"jumpcut/internal/subtitles"
)

const (
	stageRender  = "render"
	lockFileName = "jumpcut.lock"
)

// ErrWorkDirLocked is returned when another render holds the work directory.
var ErrWorkDirLocked = errors.New("work directory is locked by another render")

// Renderer runs ffmpeg jobs under a work directory.
type Renderer struct {
	FFmpeg  string
	WorkDir string
	Runner  CommandRunner
	Logger  *slog.Logger
	// Progress is called after each chunk; when nil progress is logged at
	// sampled percentages instead.
	Progress func(done, total int)
	// KeepWorkDir leaves the job directory behind for inspection.
	KeepWorkDir bool
	VideoCodec  string
}

// Job describes one render.
type Job struct {
	Source string
	Output string
	Plan   *pipeline.Plan
	// AudioMap is the ffmpeg specifier of the analysed audio stream.
	AudioMap string
	// FrameRate of the source video; zero leaves ffmpeg's default.
	FrameRate    float64
	HasSubtitles bool
	Policy       audio.Policy
}

// Result reports what a render produced.
type Result struct {
	JobID     string
	Output    string
	WorkDir   string
	Clips     int
	Audio     audio.CutStats
	Subtitles *subtitles.Stats
	Elapsed   time.Duration
}

// Render executes job and writes job.Output.
func (r *Renderer) Render(ctx context.Context, job Job) (result Result, err error) {
	if job.Plan == nil || len(job.Plan.Chunks) == 0 {
		return result, fmt.Errorf("%w: render requires a compiled plan", services.ErrValidation)
	}
	if err := pipeline.CheckRenderSupport(job.Plan.Settings.Speeds); err != nil {
		return result, err
	}
	start := time.Now()
	result.JobID = uuid.NewString()
	result.Output = job.Output
	ctx = services.WithJobID(ctx, result.JobID)
	ctx = services.WithStage(ctx, stageRender)
	ctx = services.WithSource(ctx, job.Source)

	if err := os.MkdirAll(r.WorkDir, 0o755); err != nil {
		return result, fmt.Errorf("create work directory: %w", err)
	}
	lock := flock.New(filepath.Join(r.WorkDir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return result, fmt.Errorf("acquire work directory lock: %w", err)
	}
	if !locked {
		return result, ErrWorkDirLocked
	}
	defer func() { _ = lock.Unlock() }()

	jobDir := filepath.Join(r.WorkDir, result.JobID)
	result.WorkDir = jobDir
	if err := os.MkdirAll(jobDir, 0o755); err != nil {
		return result, fmt.Errorf("create job directory: %w", err)
	}
	logger, closer, err := logging.NewJobLogger(r.Logger, filepath.Join(jobDir, "job.log"), slog.LevelDebug)
	if err != nil {
		return result, err
	}
	defer closer.Close()
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "render"))
	defer func() {
		if err != nil {
			logging.ErrorWithContext(logger, "render failed", "render_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "inspect job.log in "+jobDir),
			)
			return
		}
		if !r.KeepWorkDir {
			_ = closer.Close()
			if rmErr := os.RemoveAll(jobDir); rmErr != nil {
				logging.WarnWithContext(logger, "failed to remove job directory", "workdir_cleanup_failed",
					logging.Error(rmErr),
					logging.String(logging.FieldErrorHint, "delete "+jobDir+" manually"),
					logging.String(logging.FieldImpact, "disk space is not reclaimed"),
				)
			}
			result.WorkDir = ""
		}
	}()

	logger.Info("render started",
		logging.String(logging.FieldEventType, "render_start"),
		logging.String("output", job.Output),
		logging.Int("chunks", len(job.Plan.Chunks)),
	)

	audioPath, stats, err := r.cutAudio(ctx, logger, job, jobDir)
	if err != nil {
		return result, err
	}
	result.Audio = stats

	var subtitlePath string
	if job.HasSubtitles {
		path, subStats, subErr := r.remapSubtitles(ctx, job, jobDir)
		if subErr != nil {
			return result, subErr
		}
		subtitlePath = path
		result.Subtitles = &subStats
	}

	clips, err := r.renderChunks(ctx, logger, job, jobDir)
	if err != nil {
		return result, err
	}
	result.Clips = len(clips)

	listPath := filepath.Join(jobDir, "concat.txt")
	if err := fileutil.WriteAtomic(listPath, 0o644, func(w io.Writer) error {
		_, werr := io.WriteString(w, ConcatList(clips))
		return werr
	}); err != nil {
		return result, fmt.Errorf("write concat list: %w", err)
	}
	if err := r.run(ctx, MuxArgs(listPath, audioPath, subtitlePath, job.Output)); err != nil {
		return result, services.Wrap(services.ErrExternalTool, stageRender, "mux", "ffmpeg mux failed", err)
	}

	result.Elapsed = time.Since(start)
	logger.Info("render completed",
		logging.String(logging.FieldEventType, "render_complete"),
		logging.String("output", job.Output),
		logging.Int("clips", result.Clips),
		logging.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (r *Renderer) cutAudio(ctx context.Context, logger *slog.Logger, job Job, jobDir string) (string, audio.CutStats, error) {
	full := filepath.Join(jobDir, "audio_full.wav")
	if err := r.run(ctx, audio.ExtractArgs(job.Source, full, audio.ExtractOptions{Map: job.AudioMap})); err != nil {
		return "", audio.CutStats{}, services.Wrap(services.ErrExternalTool, stageRender, "extract audio", "ffmpeg audio extraction failed", err)
	}
	cut := filepath.Join(jobDir, "audio.wav")
	cutter := audio.MaskCutter{
		FrameLength: job.Plan.Settings.FrameLength,
		Policy:      job.Policy,
		Logger:      logger,
	}
	stats, err := cutter.Cut(ctx, full, cut, job.Plan.Padded)
	if err != nil {
		return "", stats, fmt.Errorf("cut audio: %w", err)
	}
	_ = os.Remove(full)
	return cut, stats, nil
}

func (r *Renderer) remapSubtitles(ctx context.Context, job Job, jobDir string) (string, subtitles.Stats, error) {
	raw := filepath.Join(jobDir, "subtitles.ass")
	if err := r.run(ctx, SubtitleArgs(job.Source, raw)); err != nil {
		return "", subtitles.Stats{}, services.Wrap(services.ErrExternalTool, stageRender, "extract subtitles", "ffmpeg subtitle extraction failed", err)
	}
	retimed := filepath.Join(jobDir, "subtitles_retimed.ass")
	stats, err := subtitles.RemapFile(raw, retimed, job.Plan.Map)
	if err != nil {
		return "", stats, fmt.Errorf("remap subtitles: %w", err)
	}
	return retimed, stats, nil
}

func (r *Renderer) renderChunks(ctx context.Context, logger *slog.Logger, job Job, jobDir string) ([]Clip, error) {
	chunks := job.Plan.Chunks
	opts := ChunkOptions{
		Overlap:    job.Plan.Settings.SeamOverlap,
		FrameRate:  job.FrameRate,
		VideoCodec: r.VideoCodec,
	}
	sampler := logging.NewProgressSampler(10)
	clips := make([]Clip, 0, len(chunks))
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		clip := Clip{
			Path:    filepath.Join(jobDir, fmt.Sprintf("clip%04d.mkv", i+1)),
			InPoint: job.Plan.Map.Convert(chunk.WindowStart),
			Open:    chunk.Open,
		}
		if !chunk.Open {
			clip.OutPoint = job.Plan.Map.Convert(chunk.WindowEnd)
		}
		logger.Debug("rendering chunk",
			logging.Int("chunk", i+1),
			logging.Seconds("window_start", chunk.WindowStart),
			logging.Seconds("clip_in", clip.InPoint),
			logging.Int("expression_length", len(chunk.Expression)),
		)
		if err := r.run(ctx, ChunkArgs(job.Source, clip.Path, chunk, opts)); err != nil {
			return nil, services.Wrap(services.ErrExternalTool, stageRender, "render chunk",
				fmt.Sprintf("chunk %d of %d", i+1, len(chunks)), err)
		}
		clips = append(clips, clip)

		if r.Progress != nil {
			r.Progress(i+1, len(chunks))
			continue
		}
		percent := float64(i+1) / float64(len(chunks)) * 100
		if sampler.ShouldLog(percent, "chunks") {
			logger.Info("render progress",
				logging.Int("chunk", i+1),
				logging.Int("total", len(chunks)),
				logging.String("percent", fmt.Sprintf("%.0f%%", percent)),
			)
		}
	}
	return clips, nil
}

func (r *Renderer) run(ctx context.Context, args []string) error {
	runner := r.Runner
	if runner == nil {
		runner = runCommand
	}
	binary := strings.TrimSpace(r.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	return runner(ctx, binary, args...)
}
