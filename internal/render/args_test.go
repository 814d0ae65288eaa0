package render

import (
	"slices"
	"strings"
	"testing"

	"jumpcut/internal/expression"
)

func TestChunkArgsClosedWindow(t *testing.T) {
	chunk := expression.Chunk{WindowStart: 12.5, WindowEnd: 30, Expression: "if(lt(PTS\\,1/TB)\\,0\\,PTS)"}
	args := ChunkArgs("/in.mkv", "/work/clip0001.mkv", chunk, ChunkOptions{Overlap: 5, FrameRate: 23.976, VideoCodec: "libx264"})
	joined := strings.Join(args, " ")

	for _, want := range []string{"-ss 12.500000", "-to 35.000000", "-i /in.mkv", "-map 0:v:0", "-r 23.976", "-c:v libx264"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}
	if !slices.Contains(args, "setpts="+chunk.Expression) {
		t.Fatalf("expression must be passed as one argument: %q", args)
	}
	if slices.Index(args, "-ss") > slices.Index(args, "-i") {
		t.Fatal("seek must be an input option")
	}
	if args[len(args)-1] != "/work/clip0001.mkv" {
		t.Fatalf("clip must be last, got %q", args[len(args)-1])
	}
}

func TestChunkArgsOpenWindow(t *testing.T) {
	args := ChunkArgs("/in.mkv", "/clip.mkv", expression.Chunk{WindowStart: 40, Open: true, Expression: "PTS"}, ChunkOptions{Overlap: 5})
	if slices.Contains(args, "-to") || slices.Contains(args, "-r") || slices.Contains(args, "-c:v") {
		t.Fatalf("unexpected args for open chunk: %q", args)
	}
}

func TestConcatList(t *testing.T) {
	got := ConcatList([]Clip{
		{Path: "/work/job/clip0001.mkv", InPoint: 0, OutPoint: 3.25},
		{Path: "/work/job/it's.mkv", InPoint: 3.25, Open: true},
	})
	want := "ffconcat version 1.0\n" +
		"file 'clip0001.mkv'\ninpoint 0.000000\noutpoint 3.250000\n" +
		"file 'it'\\''s.mkv'\ninpoint 3.250000\n"
	if got != want {
		t.Fatalf("ConcatList =\n%s\nwant\n%s", got, want)
	}
}

func TestMuxArgs(t *testing.T) {
	withSubs := MuxArgs("/j/concat.txt", "/j/audio.wav", "/j/subs.ass", "/out.mkv")
	joined := strings.Join(withSubs, " ")
	for _, want := range []string{"-f concat -safe 0 -i /j/concat.txt", "-i /j/audio.wav", "-i /j/subs.ass", "-map 2:s:0", "-c:v copy /out.mkv"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("args %q missing %q", joined, want)
		}
	}

	noSubs := MuxArgs("/j/concat.txt", "/j/audio.wav", "", "/out.mkv")
	if slices.Contains(noSubs, "2:s:0") || len(noSubs) != len(withSubs)-4 {
		t.Fatalf("unexpected args without subtitles: %q", noSubs)
	}
}

func TestSubtitleArgs(t *testing.T) {
	args := SubtitleArgs("/in.mkv", "/j/subs.ass")
	if !strings.Contains(strings.Join(args, " "), "-map 0:s:0 -c:s ass /j/subs.ass") {
		t.Fatalf("unexpected args %q", args)
	}
}
