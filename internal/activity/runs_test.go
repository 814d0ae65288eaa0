package activity_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"jumpcut/internal/activity"
)

func TestEncodeRuns(t *testing.T) {
	runs, err := activity.EncodeRuns(mask("..###.."))
	if err != nil {
		t.Fatalf("EncodeRuns: %v", err)
	}
	want := []activity.Run{{Active: false, Length: 2}, {Active: true, Length: 3}, {Active: false, Length: 2}}
	if !slices.Equal(runs, want) {
		t.Fatalf("runs = %v, want %v", runs, want)
	}
}

func TestEncodeRunsSingleState(t *testing.T) {
	runs, err := activity.EncodeRuns(mask("...."))
	if err != nil {
		t.Fatalf("EncodeRuns: %v", err)
	}
	if len(runs) != 1 || runs[0] != (activity.Run{Active: false, Length: 4}) {
		t.Fatalf("unexpected runs %v", runs)
	}
}

func TestEncodeRunsRejectsEmptyMask(t *testing.T) {
	if _, err := activity.EncodeRuns(nil); !errors.Is(err, activity.ErrEmptyMask) {
		t.Fatalf("expected ErrEmptyMask, got %v", err)
	}
}

func TestEncodeRunsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for trial := 0; trial < 300; trial++ {
		in := randomMask(rng, 1+rng.IntN(80))
		runs, err := activity.EncodeRuns(in)
		if err != nil {
			t.Fatalf("EncodeRuns: %v", err)
		}
		for i := 1; i < len(runs); i++ {
			if runs[i].Active == runs[i-1].Active {
				t.Fatalf("runs %d and %d share state: %v", i-1, i, runs)
			}
			if runs[i].Length < 1 {
				t.Fatalf("run %d has length %d", i, runs[i].Length)
			}
		}
		if got := activity.Flatten(runs); !slices.Equal(got, in) {
			t.Fatalf("Flatten(EncodeRuns(%v)) = %v", in, got)
		}
	}
}
