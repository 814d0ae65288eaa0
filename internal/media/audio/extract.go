package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"jumpcut/internal/services"
)

// ExtractOptions controls WAV extraction.
type ExtractOptions struct {
	// Map is the ffmpeg stream specifier; empty selects the first audio stream.
	Map string
	// Mono downmixes to one channel, which is what loudness analysis wants.
	Mono bool
	// SampleRate resamples when positive.
	SampleRate int
}

// ExtractArgs builds the ffmpeg arguments used by ExtractWAV.
func ExtractArgs(source, dest string, opts ExtractOptions) []string {
	mapping := strings.TrimSpace(opts.Map)
	if mapping == "" {
		mapping = "0:a:0"
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-map", mapping,
		"-vn",
		"-sn",
		"-dn",
	}
	if opts.Mono {
		args = append(args, "-ac", "1")
	}
	if opts.SampleRate > 0 {
		args = append(args, "-ar", strconv.Itoa(opts.SampleRate))
	}
	return append(args, "-c:a", "pcm_s16le", "-f", "wav", dest)
}

// ExtractWAV decodes one audio stream of source into a 16-bit PCM WAV at dest.
func ExtractWAV(ctx context.Context, ffmpegBinary, source, dest string, opts ExtractOptions) error {
	return runFFmpeg(ctx, ffmpegBinary, "extract audio", ExtractArgs(source, dest, opts))
}

// Encode transcodes a WAV into whatever container dest's extension implies.
func Encode(ctx context.Context, ffmpegBinary, source, dest string) error {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-i", source, dest}
	return runFFmpeg(ctx, ffmpegBinary, "encode audio", args)
}

func runFFmpeg(ctx context.Context, ffmpegBinary, operation string, args []string) error {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = "ffmpeg"
	}
	cmd := exec.CommandContext(ctx, ffmpegBinary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%w: ffmpeg %s: %w: %s", services.ErrExternalTool, operation, err, strings.TrimSpace(string(output)))
	}
	return nil
}
