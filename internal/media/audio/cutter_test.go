package audio

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jumpcut/internal/services"
	"jumpcut/internal/testsupport"
)

// stereoFixture has five 2-sample stereo frames at 100 Hz; frame n holds the
// value n+1 in every sample so kept frames are easy to recognise.
func stereoFixture(t *testing.T) string {
	t.Helper()
	var samples []int
	for frame := 1; frame <= 5; frame++ {
		samples = append(samples, frame, -frame, frame, -frame)
	}
	path := filepath.Join(t.TempDir(), "src.wav")
	testsupport.WriteWAV(t, path, 100, 2, samples)
	return path
}

func framesOf(data []int) []int {
	var frames []int
	for i := 0; i < len(data); i += 4 {
		frames = append(frames, data[i])
	}
	return frames
}

func TestMaskCutterKeepsMaskedFrames(t *testing.T) {
	src := stereoFixture(t)
	dst := filepath.Join(t.TempDir(), "cut.wav")

	cutter := MaskCutter{FrameLength: 0.02}
	stats, err := cutter.Cut(context.Background(), src, dst, []bool{true, false, true, false, true})
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if stats != (CutStats{FramesIn: 5, FramesKept: 3}) {
		t.Fatalf("stats = %+v", stats)
	}
	format, data := readWAV(t, dst)
	if format.NumChannels != 2 || format.SampleRate != 100 {
		t.Fatalf("format = %+v", format)
	}
	got := framesOf(data)
	want := []int{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("frames = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frames = %v, want %v", got, want)
		}
	}
	if data[1] != -1 {
		t.Fatalf("right channel lost: %v", data[:4])
	}
}

func TestMaskCutterOutOfDataPolicies(t *testing.T) {
	mask := []bool{true, false, true}
	tests := []struct {
		policy     Policy
		wantFrames []int
	}{
		{PolicyKeep, []int{1, 3, 4, 5}},
		{PolicyDrop, []int{1, 3}},
	}
	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			var logs bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&logs, nil))
			src := stereoFixture(t)
			dst := filepath.Join(t.TempDir(), "cut.wav")

			stats, err := MaskCutter{FrameLength: 0.02, Policy: tt.policy, Logger: logger}.Cut(context.Background(), src, dst, mask)
			if err != nil {
				t.Fatalf("Cut: %v", err)
			}
			if stats.FramesOutOfData != 2 || stats.FramesKept != len(tt.wantFrames) {
				t.Fatalf("stats = %+v", stats)
			}
			_, data := readWAV(t, dst)
			got := framesOf(data)
			if len(got) != len(tt.wantFrames) {
				t.Fatalf("frames = %v, want %v", got, tt.wantFrames)
			}
			for i := range got {
				if got[i] != tt.wantFrames[i] {
					t.Fatalf("frames = %v, want %v", got, tt.wantFrames)
				}
			}
			if n := strings.Count(logs.String(), `"event_type":"mask_out_of_data"`); n != 1 {
				t.Fatalf("expected exactly one out-of-data warning, got %d:\n%s", n, logs.String())
			}
		})
	}
}

func TestMaskCutterErrorPolicyRemovesOutput(t *testing.T) {
	src := stereoFixture(t)
	dst := filepath.Join(t.TempDir(), "cut.wav")

	_, err := MaskCutter{FrameLength: 0.02, Policy: PolicyError}.Cut(context.Background(), src, dst, []bool{true})
	if !errors.Is(err, ErrOutOfData) || !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrOutOfData, got %v", err)
	}
	if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected output removed, stat err = %v", statErr)
	}
}

func TestMaskCutterLongMaskIsInvariantViolation(t *testing.T) {
	src := stereoFixture(t)
	dst := filepath.Join(t.TempDir(), "cut.wav")

	mask := []bool{true, true, true, true, true, true, true}
	_, err := MaskCutter{FrameLength: 0.02}.Cut(context.Background(), src, dst, mask)
	if !errors.Is(err, services.ErrInvariant) {
		t.Fatalf("expected invariant error, got %v", err)
	}
	if _, statErr := os.Stat(dst); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("expected output removed, stat err = %v", statErr)
	}
}

func TestMaskCutterAllDropped(t *testing.T) {
	src := stereoFixture(t)
	dst := filepath.Join(t.TempDir(), "cut.wav")

	stats, err := MaskCutter{FrameLength: 0.02}.Cut(context.Background(), src, dst, make([]bool, 5))
	if err != nil {
		t.Fatalf("Cut: %v", err)
	}
	if stats.FramesKept != 0 {
		t.Fatalf("stats = %+v", stats)
	}
	if _, data := readWAV(t, dst); len(data) != 0 {
		t.Fatalf("expected empty data chunk, got %d samples", len(data))
	}
}

func TestMaskCutterHonoursCancellation(t *testing.T) {
	src := stereoFixture(t)
	dst := filepath.Join(t.TempDir(), "cut.wav")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := (MaskCutter{FrameLength: 0.02}).Cut(ctx, src, dst, make([]bool, 5)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParsePolicy(t *testing.T) {
	for input, want := range map[string]Policy{"": PolicyKeep, " Drop ": PolicyDrop, "error": PolicyError} {
		got, err := ParsePolicy(input)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParsePolicy("maybe"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
