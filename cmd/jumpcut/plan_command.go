package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"jumpcut/internal/expression"
	"jumpcut/internal/media/ffprobe"
	"jumpcut/internal/pipeline"
)

// defaultTimeBase is used for --verify when the source has no video stream.
const defaultTimeBase = 1.0 / 90000

type planSegment struct {
	InputStart  float64 `json:"input_start"`
	InputEnd    float64 `json:"input_end,omitempty"`
	Open        bool    `json:"open"`
	OutputStart float64 `json:"output_start"`
	OutputEnd   float64 `json:"output_end,omitempty"`
	Speed       float64 `json:"speed"`
}

type planChunk struct {
	WindowStart float64 `json:"window_start"`
	WindowEnd   float64 `json:"window_end,omitempty"`
	Open        bool    `json:"open"`
	Segments    int     `json:"segments"`
	Depth       int     `json:"depth"`
	Length      int     `json:"length"`
	Expression  string  `json:"expression,omitempty"`
}

type planReport struct {
	Source         string        `json:"source"`
	Frames         int           `json:"frames"`
	KeepRaw        float64       `json:"keep_raw"`
	KeepPadded     float64       `json:"keep_padded"`
	InputDuration  float64       `json:"input_duration_seconds"`
	OutputDuration float64       `json:"output_duration_seconds"`
	Segments       []planSegment `json:"segments"`
	Chunks         []planChunk   `json:"chunks"`
	Verified       bool          `json:"verified"`
	TimeBase       float64       `json:"time_base,omitempty"`
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var language string
	var refresh bool
	var asJSON bool
	var verify bool
	var timeBase string
	var maxSegments int
	var showExpressions bool

	cmd := &cobra.Command{
		Use:   "plan <media-file>",
		Short: "Show the time warp and compiled setpts chunks for a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := resolveSource(args[0])
			if err != nil {
				return err
			}
			analysis, plan, err := ctx.planSource(cmd.Context(), source, language, refresh)
			if err != nil {
				return err
			}

			report := buildPlanReport(source, plan, showExpressions || asJSON)
			if verify {
				tb, err := resolveTimeBase(timeBase, analysis.Probe)
				if err != nil {
					return err
				}
				if err := plan.Verify(tb); err != nil {
					return err
				}
				report.Verified = true
				report.TimeBase = tb
			}

			if asJSON {
				return writeJSON(cmd, report)
			}
			writePlanReport(cmd.OutOrStdout(), report, maxSegments, showExpressions)
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "", "Preferred audio language (ISO 639 code)")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore cached loudness and re-extract audio")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.Flags().BoolVar(&verify, "verify", false, "Evaluate every chunk expression against the time map")
	cmd.Flags().StringVar(&timeBase, "time-base", "", "Time base for --verify, e.g. 1/1000 (default: source video time base)")
	cmd.Flags().IntVar(&maxSegments, "segments", 20, "Maximum timeline segments to list (0 lists all)")
	cmd.Flags().BoolVar(&showExpressions, "expressions", false, "Print each chunk's setpts expression")
	return cmd
}

func resolveTimeBase(flag string, probe ffprobe.Result) (float64, error) {
	if strings.TrimSpace(flag) != "" {
		tb, err := ffprobe.ParseRational(flag)
		if err != nil || tb <= 0 {
			return 0, fmt.Errorf("invalid --time-base %q", flag)
		}
		return tb, nil
	}
	if tb, err := probe.VideoTimeBase(); err == nil {
		return tb, nil
	}
	return defaultTimeBase, nil
}

func buildPlanReport(source string, plan *pipeline.Plan, withExpressions bool) planReport {
	raw, padded := plan.KeepRatios()
	report := planReport{
		Source:         source,
		Frames:         plan.Frames,
		KeepRaw:        raw,
		KeepPadded:     padded,
		InputDuration:  plan.InputDuration(),
		OutputDuration: plan.OutputDuration(),
	}
	for _, seg := range plan.Map.Segments() {
		s := planSegment{
			InputStart:  seg.InputStart,
			InputEnd:    seg.InputEnd,
			Open:        seg.Open,
			OutputStart: seg.OutputStart,
			Speed:       seg.Speed,
		}
		if !seg.Open {
			s.OutputEnd = seg.OutputEnd()
		}
		report.Segments = append(report.Segments, s)
	}
	for _, chunk := range plan.Chunks {
		c := planChunk{
			WindowStart: chunk.WindowStart,
			WindowEnd:   chunk.WindowEnd,
			Open:        chunk.Open,
			Segments:    chunk.Segments,
			Depth:       expression.Depth(chunk.Expression),
			Length:      len(chunk.Expression),
		}
		if withExpressions {
			c.Expression = chunk.Expression
		}
		report.Chunks = append(report.Chunks, c)
	}
	return report
}

func writePlanReport(w io.Writer, report planReport, maxSegments int, showExpressions bool) {
	summary := [][2]string{
		{"Source", report.Source},
		{"Frames", strconv.Itoa(report.Frames)},
		{"Kept before padding", formatPercent(report.KeepRaw)},
		{"Kept after padding", formatPercent(report.KeepPadded)},
		{"Input duration", formatSeconds(report.InputDuration)},
		{"Output duration", formatSeconds(report.OutputDuration)},
		{"Segments", strconv.Itoa(len(report.Segments))},
		{"Chunks", strconv.Itoa(len(report.Chunks))},
	}
	if report.Verified {
		summary = append(summary, [2]string{"Verified", fmt.Sprintf("yes (time base %g)", report.TimeBase)})
	}
	fmt.Fprintln(w, keyValueTable("Plan", summary))

	segments := report.Segments
	if maxSegments > 0 && len(segments) > maxSegments {
		segments = segments[:maxSegments]
	}
	rows := make([][]string, 0, len(segments))
	for i, seg := range segments {
		inEnd, outEnd := "end", "end"
		if !seg.Open {
			inEnd = formatFloat(seg.InputEnd)
			outEnd = formatFloat(seg.OutputEnd)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatFloat(seg.InputStart),
			inEnd,
			formatFloat(seg.OutputStart),
			outEnd,
			formatSpeed(seg.Speed),
		})
	}
	title := "Timeline"
	if len(segments) < len(report.Segments) {
		title = fmt.Sprintf("Timeline (first %d of %d)", len(segments), len(report.Segments))
	}
	fmt.Fprintln(w, tableSpec{
		title:   title,
		headers: []string{"#", "Input start", "Input end", "Output start", "Output end", "Speed"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	}.render())

	rows = rows[:0]
	for i, chunk := range report.Chunks {
		end := "end"
		if !chunk.Open {
			end = formatFloat(chunk.WindowEnd)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			formatFloat(chunk.WindowStart),
			end,
			strconv.Itoa(chunk.Segments),
			strconv.Itoa(chunk.Depth),
			strconv.Itoa(chunk.Length),
		})
	}
	fmt.Fprintln(w, tableSpec{
		title:   "Chunks",
		headers: []string{"#", "Window start", "Window end", "Segments", "Depth", "Length"},
		rows:    rows,
		aligns:  []columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	}.render())

	if showExpressions {
		for i, chunk := range report.Chunks {
			fmt.Fprintf(w, "chunk %d: setpts=%s\n", i+1, chunk.Expression)
		}
	}
}
