package subtitles

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"jumpcut/internal/services"
)

var (
	// ErrMissingFormat is returned when a Dialogue line precedes a Format
	// declaration, the document has none, or Format lacks Start or End.
	ErrMissingFormat = fmt.Errorf("%w: events format missing start/end columns", services.ErrMalformedInput)
	// ErrShortDialogue is returned when a Dialogue line has fewer fields
	// than the Format declaration.
	ErrShortDialogue = fmt.Errorf("%w: dialogue has fewer fields than format", services.ErrMalformedInput)
	// ErrBadTimestamp is returned for timestamps that are not H:MM:SS.ss.
	ErrBadTimestamp = fmt.Errorf("%w: invalid timestamp", services.ErrMalformedInput)
)

const eventsSection = "[events]"

// Converter maps input seconds to output seconds. *timewarp.Map satisfies it.
type Converter interface {
	Convert(t float64) float64
}

// Stats summarises a remap.
type Stats struct {
	Dialogues int
	Lines     int
}

type columns struct {
	count int
	start int
	end   int
}

// Remap copies an ASS script from r to w, rewriting Dialogue Start and End
// through conv. Line endings are preserved.
func Remap(r io.Reader, w io.Writer, conv Converter) (Stats, error) {
	var stats Stats
	br := bufio.NewReader(r)
	bw := bufio.NewWriter(w)

	inEvents := false
	var cols *columns
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return stats, fmt.Errorf("read subtitles: %w", readErr)
		}
		if raw == "" && readErr != nil {
			break
		}
		stats.Lines++
		body, eol := splitEOL(raw)

		out := raw
		switch {
		case !inEvents:
			inEvents = strings.EqualFold(strings.TrimSpace(body), eventsSection)
		case strings.TrimSpace(body) == "":
			// Blank line ends the events block; the rest is copied untouched.
			if _, err := bw.WriteString(raw); err != nil {
				return stats, err
			}
			if _, err := io.Copy(bw, br); err != nil {
				return stats, fmt.Errorf("copy trailer: %w", err)
			}
			return stats, flush(bw, cols)
		default:
			label, rest, ok := strings.Cut(body, ":")
			if !ok {
				break
			}
			switch strings.TrimSpace(label) {
			case "Format":
				parsed, err := parseFormat(rest)
				if err != nil {
					return stats, fmt.Errorf("line %d: %w", stats.Lines, err)
				}
				cols = &parsed
			case "Dialogue":
				if cols == nil {
					return stats, fmt.Errorf("line %d: %w: dialogue before format", stats.Lines, ErrMissingFormat)
				}
				rewritten, err := remapDialogue(rest, *cols, conv)
				if err != nil {
					return stats, fmt.Errorf("line %d: %w", stats.Lines, err)
				}
				out = label + ":" + rewritten + eol
				stats.Dialogues++
			}
		}
		if _, err := bw.WriteString(out); err != nil {
			return stats, err
		}
		if readErr != nil {
			break
		}
	}
	return stats, flush(bw, cols)
}

func flush(bw *bufio.Writer, cols *columns) error {
	if err := bw.Flush(); err != nil {
		return err
	}
	if cols == nil {
		return ErrMissingFormat
	}
	return nil
}

func splitEOL(line string) (string, string) {
	if body, ok := strings.CutSuffix(line, "\r\n"); ok {
		return body, "\r\n"
	}
	if body, ok := strings.CutSuffix(line, "\n"); ok {
		return body, "\n"
	}
	return line, ""
}

func parseFormat(rest string) (columns, error) {
	names := strings.Split(rest, ",")
	cols := columns{count: len(names), start: -1, end: -1}
	for i, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "start":
			cols.start = i
		case "end":
			cols.end = i
		}
	}
	if cols.start < 0 || cols.end < 0 {
		return columns{}, fmt.Errorf("%w: %q", ErrMissingFormat, strings.TrimSpace(rest))
	}
	return cols, nil
}

// remapDialogue splits into at most cols.count fields so commas in the final
// Text field survive, and rewrites only the timestamp fields.
func remapDialogue(rest string, cols columns, conv Converter) (string, error) {
	fields := strings.SplitN(rest, ",", cols.count)
	if len(fields) < cols.count {
		return "", fmt.Errorf("%w: got %d, want %d", ErrShortDialogue, len(fields), cols.count)
	}
	for _, idx := range []int{cols.start, cols.end} {
		retimed, err := retime(fields[idx], conv)
		if err != nil {
			return "", err
		}
		fields[idx] = retimed
	}
	return strings.Join(fields, ","), nil
}

// retime keeps surrounding whitespace intact.
func retime(field string, conv Converter) (string, error) {
	trimmed := strings.TrimSpace(field)
	seconds, err := ParseTimestamp(trimmed)
	if err != nil {
		return "", err
	}
	lead := field[:strings.Index(field, trimmed)]
	trail := field[len(lead)+len(trimmed):]
	return lead + FormatTimestamp(conv.Convert(seconds)) + trail, nil
}
