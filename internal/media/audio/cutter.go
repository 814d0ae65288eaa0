package audio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"jumpcut/internal/logging"
	"jumpcut/internal/services"
)

// Policy decides what happens to audio frames the mask does not cover.
type Policy string

const (
	PolicyKeep  Policy = "keep"
	PolicyDrop  Policy = "drop"
	PolicyError Policy = "error"
)

// ParsePolicy accepts the configuration spelling of a policy. Empty means keep.
func ParsePolicy(value string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(value))); p {
	case "":
		return PolicyKeep, nil
	case PolicyKeep, PolicyDrop, PolicyError:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown out-of-data policy %q", services.ErrConfiguration, value)
	}
}

// ErrOutOfData is returned under PolicyError when the audio outlasts the mask.
var ErrOutOfData = fmt.Errorf("%w: audio has more frames than the activity mask", services.ErrValidation)

// CutStats summarises one cut.
type CutStats struct {
	FramesIn        int
	FramesKept      int
	FramesOutOfData int
}

// MaskCutter writes the frames of a WAV whose mask entry is true.
type MaskCutter struct {
	FrameLength float64
	Policy      Policy
	Logger      *slog.Logger
}

// Cut reads src frame by frame and writes the kept frames to dst with the
// same sample format. dst is removed when the cut fails.
func (c MaskCutter) Cut(ctx context.Context, src, dst string, mask []bool) (stats CutStats, err error) {
	policy := c.Policy
	if policy == "" {
		policy = PolicyKeep
	}
	logger := logging.WithContext(ctx, logging.NewComponentLogger(c.Logger, "audio"))

	in, err := os.Open(src)
	if err != nil {
		return stats, fmt.Errorf("open wav: %w", err)
	}
	defer in.Close()

	dec, info, err := openDecoder(in, c.FrameLength)
	if err != nil {
		return stats, err
	}

	out, err := os.Create(dst)
	if err != nil {
		return stats, fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if err != nil {
			_ = out.Close()
			_ = os.Remove(dst)
		}
	}()

	bitDepth := info.BitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	enc := wav.NewEncoder(out, info.SampleRate, bitDepth, info.Channels, 1)

	frameSamples := info.SamplesPerFrame * info.Channels
	frame := make([]int, 0, frameSamples)
	warned := false
	var failure error

	flush := func() error {
		if len(frame) == 0 {
			return nil
		}
		defer func() { frame = frame[:0] }()
		index := stats.FramesIn
		stats.FramesIn++

		keep := false
		if index < len(mask) {
			keep = mask[index]
		} else {
			stats.FramesOutOfData++
			switch policy {
			case PolicyError:
				return fmt.Errorf("%w (mask has %d frames)", ErrOutOfData, len(mask))
			case PolicyKeep:
				keep = true
			}
			if !warned {
				warned = true
				logging.WarnWithContext(logger, "audio outlasts activity mask",
					"mask_out_of_data",
					logging.Int("mask_frames", len(mask)),
					logging.String("policy", string(policy)),
					logging.String(logging.FieldErrorHint, "lower frame_length_seconds or re-run analysis on the same source"),
					logging.String(logging.FieldImpact, "trailing audio past the analysed range is "+policyVerb(policy)),
				)
			}
		}
		if !keep {
			return nil
		}
		stats.FramesKept++
		return enc.Write(&goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
			Data:           frame,
			SourceBitDepth: bitDepth,
		})
	}

	readErr := readSamples(dec, info, func(samples []int) {
		for len(samples) > 0 && failure == nil {
			if ctx.Err() != nil {
				failure = ctx.Err()
				return
			}
			take := min(frameSamples-len(frame), len(samples))
			frame = append(frame, samples[:take]...)
			samples = samples[take:]
			if len(frame) == frameSamples {
				failure = flush()
			}
		}
	})
	if err = errors.Join(readErr, failure); err != nil {
		return stats, err
	}
	if err = flush(); err != nil {
		return stats, err
	}
	if stats.FramesIn < len(mask) {
		err = fmt.Errorf("%w: mask has %d frames but audio ended after %d", services.ErrInvariant, len(mask), stats.FramesIn)
		return stats, err
	}
	if stats.FramesKept == 0 {
		// Forces the header and an empty data chunk.
		if err = enc.Write(&goaudio.IntBuffer{Format: &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate}}); err != nil {
			return stats, fmt.Errorf("write wav header: %w", err)
		}
	}
	if err = enc.Close(); err != nil {
		return stats, fmt.Errorf("finalize wav: %w", err)
	}
	if err = out.Close(); err != nil {
		return stats, fmt.Errorf("close %s: %w", dst, err)
	}

	logger.Debug("audio cut",
		logging.Int("frames_in", stats.FramesIn),
		logging.Int("frames_kept", stats.FramesKept),
		logging.Int("frames_out_of_data", stats.FramesOutOfData),
	)
	return stats, nil
}

func policyVerb(p Policy) string {
	if p == PolicyDrop {
		return "dropped"
	}
	return "kept"
}
