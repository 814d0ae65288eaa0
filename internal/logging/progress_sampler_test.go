package logging

import "testing"

func TestProgressSamplerBuckets(t *testing.T) {
	s := NewProgressSampler(25)
	steps := []struct {
		percent float64
		phase   string
		want    bool
	}{
		{0, "chunks", true},
		{10, "chunks", false},
		{25, "chunks", true},
		{26, "chunks", false},
		{80, "chunks", true},
		{150, "chunks", true},
		{100, "chunks", false},
		{0, "mux", true},
		{-1, "mux", false},
	}
	for i, step := range steps {
		if got := s.ShouldLog(step.percent, step.phase); got != step.want {
			t.Fatalf("step %d (%v, %q): got %v, want %v", i, step.percent, step.phase, got, step.want)
		}
	}
}

func TestProgressSamplerDefaults(t *testing.T) {
	if s := NewProgressSampler(0); s.bucketSize != 10 {
		t.Fatalf("bucketSize = %v, want 10", s.bucketSize)
	}
	var nilSampler *ProgressSampler
	if !nilSampler.ShouldLog(50, "x") {
		t.Fatal("nil sampler should always log")
	}
}
