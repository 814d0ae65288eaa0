package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"jumpcut/internal/logging"
	"jumpcut/internal/media/audio"
	"jumpcut/internal/pipeline"
	"jumpcut/internal/services"
)

func newAudioCommand(ctx *commandContext) *cobra.Command {
	var language string
	var refresh bool

	cmd := &cobra.Command{
		Use:   "audio <media-file> <output>",
		Short: "Cut the silent frames out of the audio track only",
		Long: "Cut the silent frames out of the audio track only.\n\n" +
			"The output format follows the extension; anything other than .wav is\n" +
			"encoded by ffmpeg from the cut PCM audio.",
		Args: cobra.ExactArgs(2),
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
			if err := pipeline.CheckRenderSupport(pipeline.FromConfig(cfg).Speeds); err != nil {
				return err
			}
			policy, err := audio.ParsePolicy(cfg.Activity.OutOfDataPolicy)
			if err != nil {
				return err
			}

			analysis, plan, err := ctx.planSource(cmd.Context(), source, language, refresh)
			if err != nil {
				return err
			}

			workDir, err := os.MkdirTemp(cfg.Paths.WorkDir, "audio-")
			if err != nil {
				return fmt.Errorf("create work directory: %w", err)
			}
			defer os.RemoveAll(workDir)

			full := filepath.Join(workDir, "full.wav")
			opts := audio.ExtractOptions{Map: analysis.Audio.MapSpecifier()}
			if err := audio.ExtractWAV(cmd.Context(), cfg.Tools.FFmpeg, source, full, opts); err != nil {
				return err
			}

			cutPath := output
			encode := !strings.EqualFold(filepath.Ext(output), ".wav")
			if encode {
				cutPath = filepath.Join(workDir, "cut.wav")
			}
			runCtx := services.WithSource(services.WithStage(cmd.Context(), "audio"), source)
			cutter := audio.MaskCutter{
				FrameLength: cfg.Activity.FrameLengthSeconds,
				Policy:      policy,
				Logger:      logging.NewComponentLogger(logger, "audio"),
			}
			stats, err := cutter.Cut(runCtx, full, cutPath, plan.Padded)
			if err != nil {
				return err
			}
			if encode {
				if err := audio.Encode(cmd.Context(), cfg.Tools.FFmpeg, cutPath, output); err != nil {
					return err
				}
			}

			raw, padded := plan.KeepRatios()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Kept %s of frames before padding, %s after padding\n", formatPercent(raw), formatPercent(padded))
			fmt.Fprintf(out, "Wrote %d of %d frames to %s\n", stats.FramesKept, stats.FramesIn, output)
			if stats.FramesOutOfData > 0 {
				fmt.Fprintf(out, "%d trailing frames had no loudness data (policy %s)\n", stats.FramesOutOfData, policy)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Preferred audio language (ISO 639 code)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached loudness and re-extract audio")
	return cmd
}
