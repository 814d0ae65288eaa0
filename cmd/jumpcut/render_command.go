package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"jumpcut/internal/media/audio"
	"jumpcut/internal/pipeline"
	"jumpcut/internal/preflight"
	"jumpcut/internal/render"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var language string
	var refresh bool
	var keepWork bool
	var skipPreflight bool
	var videoCodec string
	var noSubtitles bool

	cmd := &cobra.Command{
		Use:   "render <media-file> <output>",
		Short: "Render the jump-cut video with ffmpeg",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}
			output, err := filepath.Abs(args[1])
			if err != nil {
				return fmt.Errorf("resolve output: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			policy, err := audio.ParsePolicy(cfg.Activity.OutOfDataPolicy)
			if err != nil {
				return err
			}
			settings := pipeline.FromConfig(cfg)
			if err := pipeline.CheckRenderSupport(settings.Speeds); err != nil {
				return err
			}
			if !skipPreflight {
				if err := preflight.Err(preflight.RunAll(cmd.Context(), cfg)); err != nil {
					return err
				}
			}

			analysis, plan, err := ctx.planSource(cmd.Context(), source, language, refresh)
			if err != nil {
				return err
			}
			frameRate, _ := analysis.Probe.VideoFrameRate()

			renderer := &render.Renderer{
				FFmpeg:      cfg.Tools.FFmpeg,
				WorkDir:     cfg.Paths.WorkDir,
				Logger:      logger,
				KeepWorkDir: keepWork,
				VideoCodec:  videoCodec,
			}
			var bar *chunkProgress
			if errOut := cmd.ErrOrStderr(); isTerminal(errOut) {
				bar = newChunkProgress(errOut, len(plan.Chunks))
				renderer.Progress = bar.update
			}

			result, err := renderer.Render(cmd.Context(), render.Job{
				Source:       source,
				Output:       output,
				Plan:         plan,
				AudioMap:     analysis.Audio.MapSpecifier(),
				FrameRate:    frameRate,
				HasSubtitles: analysis.Probe.HasSubtitleStream() && !noSubtitles,
				Policy:       policy,
			})
			if bar != nil {
				bar.finish(err == nil)
			}
			if err != nil {
				if result.WorkDir != "" {
					return fmt.Errorf("%w (job files kept in %s)", err, result.WorkDir)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Rendered %s in %s (%d chunks)\n", output, formatSeconds(result.Elapsed.Seconds()), result.Clips)
			fmt.Fprintf(out, "Duration %s -> %s\n", formatSeconds(plan.InputDuration()), formatSeconds(plan.OutputDuration()))
			if result.Subtitles != nil {
				fmt.Fprintf(out, "Retimed %d subtitle lines\n", result.Subtitles.Dialogues)
			}
			if result.WorkDir != "" {
				fmt.Fprintf(out, "Job files kept in %s\n", result.WorkDir)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Preferred audio language (ISO 639 code)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached loudness and re-extract audio")
	cmd.Flags().BoolVar(&keepWork, "keep-work", false, "Keep the per-job work directory after success")
	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip tool and directory checks")
	cmd.Flags().StringVar(&videoCodec, "video-codec", "", "Video encoder for chunk renders (ffmpeg default when empty)")
	cmd.Flags().BoolVar(&noSubtitles, "no-subtitles", false, "Do not carry subtitles into the output")
	return cmd
}
