package render

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"jumpcut/internal/expression"
)

// ChunkOptions shapes the per-chunk ffmpeg invocation.
type ChunkOptions struct {
	// Overlap extends every closed window so no frame near the seam is lost.
	Overlap float64
	// FrameRate forces a constant output rate; frames squeezed onto the
	// same timestamp are dropped.
	FrameRate float64
	// VideoCodec is passed as -c:v when set.
	VideoCodec string
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ChunkArgs builds the ffmpeg arguments that render one chunk of source
// into clip. Seeking is done on the input so PTS restarts at the window
// start, which is what the chunk expression expects.
func ChunkArgs(source, clip string, chunk expression.Chunk, opts ChunkOptions) []string {
	args := []string{"-y", "-hide_banner", "-loglevel", "error", "-ss", seconds(chunk.WindowStart)}
	if !chunk.Open {
		args = append(args, "-to", seconds(chunk.WindowEnd+max(opts.Overlap, 0)))
	}
	args = append(args,
		"-i", source,
		"-map", "0:v:0",
		"-an", "-sn", "-dn",
		"-vf", "setpts="+chunk.Expression,
	)
	if opts.FrameRate > 0 {
		args = append(args, "-r", strconv.FormatFloat(opts.FrameRate, 'f', -1, 64))
	}
	if codec := strings.TrimSpace(opts.VideoCodec); codec != "" {
		args = append(args, "-c:v", codec)
	}
	return append(args, clip)
}

// Clip is one rendered chunk and the output-time span it contributes.
type Clip struct {
	Path string
	// InPoint and OutPoint are output timestamps inside the clip; OutPoint
	// is ignored for the final, open clip.
	InPoint  float64
	OutPoint float64
	Open     bool
}

// ConcatList renders an ffconcat script for clips.
func ConcatList(clips []Clip) string {
	var b strings.Builder
	b.WriteString("ffconcat version 1.0\n")
	for _, clip := range clips {
		fmt.Fprintf(&b, "file '%s'\n", escapeConcatPath(filepath.Base(clip.Path)))
		fmt.Fprintf(&b, "inpoint %s\n", seconds(clip.InPoint))
		if !clip.Open {
			fmt.Fprintf(&b, "outpoint %s\n", seconds(clip.OutPoint))
		}
	}
	return b.String()
}

func escapeConcatPath(name string) string {
	return strings.ReplaceAll(name, "'", `'\''`)
}

// MuxArgs combines the concatenated video with the cut audio and optional
// retimed subtitles.
func MuxArgs(concatList, audio, subtitles, output string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0", "-i", concatList,
		"-i", audio,
	}
	if subtitles != "" {
		args = append(args, "-i", subtitles)
	}
	args = append(args, "-map", "0:v:0", "-map", "1:a:0")
	if subtitles != "" {
		args = append(args, "-map", "2:s:0")
	}
	return append(args, "-c:v", "copy", output)
}

// SubtitleArgs extracts the first subtitle stream of source as ASS.
func SubtitleArgs(source, dest string) []string {
	return []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", source,
		"-map", "0:s:0",
		"-c:s", "ass",
		dest,
	}
}
