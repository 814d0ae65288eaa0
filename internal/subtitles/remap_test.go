package subtitles_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"jumpcut/internal/services"
	"jumpcut/internal/subtitles"
	"jumpcut/internal/timewarp"
)

func exampleMap(t *testing.T) *timewarp.Map {
	t.Helper()
	m, err := timewarp.New([]timewarp.Point{{Start: 0, Speed: 0}, {Start: 2, Speed: 1}, {Start: 5, Speed: 0}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

type shift float64

func (s shift) Convert(t float64) float64 { return t + float64(s) }

func remapString(t *testing.T, in string, conv subtitles.Converter) (string, subtitles.Stats, error) {
	t.Helper()
	var out bytes.Buffer
	stats, err := subtitles.Remap(strings.NewReader(in), &out, conv)
	return out.String(), stats, err
}

func TestRemapExample(t *testing.T) {
	in := "[Events]\nFormat: Start,End,Text\nDialogue: 0:00:02.00,0:00:05.00,Hello\n"
	got, stats, err := remapString(t, in, exampleMap(t))
	if err != nil {
		t.Fatalf("Remap: %v", err)
	}
	want := "[Events]\nFormat: Start,End,Text\nDialogue: 0:0:0.00,0:0:3.00,Hello\n"
	if got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
	if stats.Dialogues != 1 {
		t.Fatalf("Dialogues = %d, want 1", stats.Dialogues)
	}
}

func TestRemapPreservesEverythingButTimestamps(t *testing.T) {
	in := strings.Join([]string{
		"[Script Info]",
		"Title: Dialogue: not an event",
		"",
		"[V4+ Styles]",
		"Format: Name, Fontname",
		"Style: Default,Arial",
		"",
		"[Events]",
		"Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text",
		"Comment: 0,0:00:01.00,0:00:02.00,Default,,0,0,0,,note",
		"Dialogue: 0,0:00:01.00,0:01:02.50,Default,,0,0,0,,Well, well, well",
		"",
		"[Fonts]",
		"Dialogue: 9:99:99.99 is not parsed here",
		"",
	}, "\r\n")
	got, stats, err := remapString(t, in, shift(10))
	if err != nil {
		t.Fatalf("Remap: %v", err)
	}
	want := strings.Replace(in,
		"Dialogue: 0,0:00:01.00,0:01:02.50,Default,,0,0,0,,Well, well, well",
		"Dialogue: 0,0:0:11.00,0:1:12.50,Default,,0,0,0,,Well, well, well", 1)
	if got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
	if stats.Dialogues != 1 {
		t.Fatalf("Dialogues = %d, want 1", stats.Dialogues)
	}
}

func TestRemapLocatesColumnsByName(t *testing.T) {
	in := "[Events]\nFormat: End, Start, Text\nDialogue: 0:00:04.00, 0:00:01.00 ,hi, there\n"
	got, _, err := remapString(t, in, shift(1))
	if err != nil {
		t.Fatalf("Remap: %v", err)
	}
	want := "[Events]\nFormat: End, Start, Text\nDialogue: 0:0:5.00, 0:0:2.00 ,hi, there\n"
	if got != want {
		t.Fatalf("got\n%q\nwant\n%q", got, want)
	}
}

func TestRemapErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"no events", "[Script Info]\nTitle: x\n", subtitles.ErrMissingFormat},
		{"no format", "[Events]\nDialogue: 0:00:01.00,0:00:02.00,x\n", subtitles.ErrMissingFormat},
		{"format without end", "[Events]\nFormat: Start, Text\nDialogue: 0:00:01.00,x\n", subtitles.ErrMissingFormat},
		{"short dialogue", "[Events]\nFormat: Layer, Start, End, Text\nDialogue: 0,0:00:01.00\n", subtitles.ErrShortDialogue},
		{"bad timestamp", "[Events]\nFormat: Start, End, Text\nDialogue: 1.5,0:00:02.00,x\n", subtitles.ErrBadTimestamp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := remapString(t, tt.in, shift(0))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, services.ErrMalformedInput) {
				t.Fatalf("expected malformed input marker, got %v", err)
			}
		})
	}
}

func TestTimestamps(t *testing.T) {
	parsed, err := subtitles.ParseTimestamp("1:02:03.45")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if diff := parsed - 3723.45; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("ParseTimestamp = %v", parsed)
	}
	for _, tc := range []struct {
		in   float64
		want string
	}{
		{0, "0:0:0.00"},
		{3, "0:0:3.00"},
		{3723.45, "1:2:3.45"},
		{59.999, "0:1:0.00"},
		{-4, "0:0:0.00"},
	} {
		if got := subtitles.FormatTimestamp(tc.in); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRemapFileDecodesUTF16(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.ass")
	dst := filepath.Join(dir, "out.ass")

	script := "[Events]\nFormat: Start,End,Text\nDialogue: 0:00:02.00,0:00:05.00,Grüße\n"
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().String(script)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(src, []byte(encoded), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := subtitles.RemapFile(src, dst, exampleMap(t)); err != nil {
		t.Fatalf("RemapFile: %v", err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	want := "[Events]\nFormat: Start,End,Text\nDialogue: 0:0:0.00,0:0:3.00,Grüße\n"
	if string(got) != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRemapFileLeavesNoOutputOnError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.ass")
	dst := filepath.Join(dir, "out.ass")
	if err := os.WriteFile(src, []byte("[Events]\nDialogue: x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := subtitles.RemapFile(src, dst, exampleMap(t)); !errors.Is(err, subtitles.ErrMissingFormat) {
		t.Fatalf("expected ErrMissingFormat, got %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Fatalf("expected no output file, stat err = %v", err)
	}
}
