package audio

import (
	"fmt"
	"strconv"
	"strings"

	"jumpcut/internal/language"
	"jumpcut/internal/media/ffprobe"
)

// Selection identifies the audio stream to analyse and cut.
type Selection struct {
	Stream ffprobe.Stream
	// AudioIndex is the position among audio streams only, as used by the
	// ffmpeg "0:a:N" specifier. It is -1 when the input has no audio.
	AudioIndex int
}

// Found reports whether an audio stream was selected.
func (s Selection) Found() bool {
	return s.AudioIndex >= 0
}

// MapSpecifier returns the ffmpeg -map argument for the selection.
func (s Selection) MapSpecifier() string {
	if !s.Found() {
		return "0:a:0"
	}
	return fmt.Sprintf("0:a:%d", s.AudioIndex)
}

// Label returns a human-readable summary of the selected stream.
func (s Selection) Label() string {
	if !s.Found() {
		return ""
	}
	return formatStreamSummary(s.Stream)
}

// Select prefers the default-flagged stream, then one whose language tag
// matches preferred (any of "en", "eng", or "english"), then the earliest
// audio stream. An empty preferred skips the language preference.
func Select(streams []ffprobe.Stream, preferred string) Selection {
	best := Selection{AudioIndex: -1}
	bestScore := -1
	order := 0
	for _, stream := range streams {
		if !strings.EqualFold(stream.CodecType, "audio") {
			continue
		}
		score := 0
		if stream.Disposition["default"] == 1 {
			score += 2
		}
		if language.Matches(language.FromTags(stream.Tags), preferred) {
			score++
		}
		if score > bestScore {
			best = Selection{Stream: stream, AudioIndex: order}
			bestScore = score
		}
		order++
	}
	return best
}

func formatStreamSummary(stream ffprobe.Stream) string {
	parts := make([]string, 0, 4)
	if lang := language.FromTags(stream.Tags); lang != "" {
		parts = append(parts, language.DisplayName(lang))
	}
	codec := stream.CodecLong
	if codec == "" {
		codec = stream.CodecName
	}
	if codec != "" {
		parts = append(parts, codec)
	}
	if stream.Channels > 0 {
		parts = append(parts, strconv.Itoa(stream.Channels)+"ch")
	}
	if title := strings.TrimSpace(stream.Tags["title"]); title != "" {
		parts = append(parts, title)
	}
	if len(parts) == 0 {
		return "audio"
	}
	return strings.Join(parts, " | ")
}
