package subtitles

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseTimestamp parses an ASS timestamp (H:MM:SS.ss) into seconds.
func ParseTimestamp(s string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadTimestamp, s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("%w: %q: hours", ErrBadTimestamp, s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 {
		return 0, fmt.Errorf("%w: %q: minutes", ErrBadTimestamp, s)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || seconds < 0 || math.IsInf(seconds, 0) {
		return 0, fmt.Errorf("%w: %q: seconds", ErrBadTimestamp, s)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// FormatTimestamp renders seconds as H:M:S.cc rounded to centiseconds.
// Negative input clamps to zero.
func FormatTimestamp(seconds float64) string {
	cs := int64(math.Round(seconds * 100))
	if cs < 0 || math.IsNaN(seconds) {
		cs = 0
	}
	return fmt.Sprintf("%d:%d:%d.%02d", cs/360000, cs/6000%60, cs/100%60, cs%100)
}
