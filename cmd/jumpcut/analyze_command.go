package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"jumpcut/internal/activity"
)

type analyzeReport struct {
	Source        string  `json:"source"`
	SizeBytes     int64   `json:"size_bytes"`
	MediaDuration float64 `json:"media_duration_seconds"`
	BitRate       int64   `json:"bit_rate"`
	VideoStreams  int     `json:"video_streams"`
	AudioStreams  int     `json:"audio_streams"`
	Subtitles     string  `json:"subtitle_codec,omitempty"`
	AudioStream   string  `json:"audio_stream"`
	Frames        int     `json:"frames"`
	FrameLength   float64 `json:"frame_length_seconds"`
	Duration      float64 `json:"duration_seconds"`
	SampleRate    int     `json:"sample_rate"`
	Cached        bool    `json:"cached"`
	Threshold     float64 `json:"threshold"`
	Cutoff        float64 `json:"cutoff"`
	PeakLevel     float64 `json:"peak_level"`
	ActiveRatio   float64 `json:"active_ratio"`
	ActiveSeconds float64 `json:"active_seconds"`
}

func newAnalyzeCommand(ctx *commandContext) *cobra.Command {
	var language string
	var refresh bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <media-file>",
		Short: "Measure per-frame loudness and report how much is active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			analysis, err := ctx.analyzeSource(cmd.Context(), source, language, refresh)
			if err != nil {
				return err
			}

			threshold := cfg.Activity.Threshold
			cutoff, err := activity.Cutoff(analysis.Levels, threshold)
			if err != nil {
				return err
			}
			mask, err := activity.Classify(analysis.Levels, threshold)
			if err != nil {
				return err
			}
			peak := 0.0
			for _, level := range analysis.Levels {
				peak = max(peak, level)
			}
			frameLength := cfg.Activity.FrameLengthSeconds
			ratio := activity.KeepRatio(mask)
			report := analyzeReport{
				Source:        source,
				SizeBytes:     analysis.Probe.SizeBytes(),
				MediaDuration: analysis.Probe.DurationSeconds(),
				BitRate:       analysis.Probe.BitRate(),
				VideoStreams:  analysis.Probe.VideoStreamCount(),
				AudioStreams:  analysis.Probe.AudioStreamCount(),
				Subtitles:     analysis.Probe.SubtitleCodec(),
				AudioStream:   analysis.Audio.Label(),
				Frames:        len(analysis.Levels),
				FrameLength:   frameLength,
				Duration:      float64(len(analysis.Levels)) * frameLength,
				SampleRate:    analysis.SampleRate,
				Cached:        analysis.Cached,
				Threshold:     threshold,
				Cutoff:        cutoff,
				PeakLevel:     peak,
				ActiveRatio:   ratio,
				ActiveSeconds: ratio * float64(len(analysis.Levels)) * frameLength,
			}
			if asJSON {
				return writeJSON(cmd, report)
			}

			subtitles := report.Subtitles
			if subtitles == "" {
				subtitles = "none"
			}
			fmt.Fprintln(cmd.OutOrStdout(), keyValueTable("Analysis", [][2]string{
				{"Source", fmt.Sprintf("%s (%s)", report.Source, humanize.IBytes(uint64(max(report.SizeBytes, 0))))},
				{"Container", fmt.Sprintf("%s at %s/s", formatSeconds(report.MediaDuration), humanize.SI(float64(report.BitRate), "b"))},
				{"Streams", fmt.Sprintf("%d video, %d audio, subtitles: %s", report.VideoStreams, report.AudioStreams, subtitles)},
				{"Audio stream", report.AudioStream},
				{"Frames", fmt.Sprintf("%d x %gs", report.Frames, report.FrameLength)},
				{"Duration", formatSeconds(report.Duration)},
				{"Sample rate", fmt.Sprintf("%d Hz", report.SampleRate)},
				{"From cache", yesNo(report.Cached)},
				{"Threshold", fmt.Sprintf("%g", report.Threshold)},
				{"Cutoff level", fmt.Sprintf("%g (peak %g)", report.Cutoff, report.PeakLevel)},
				{"Active", fmt.Sprintf("%s (%s)", formatPercent(report.ActiveRatio), formatSeconds(report.ActiveSeconds))},
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Preferred audio language (ISO 639 code)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached loudness and re-extract audio")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}
