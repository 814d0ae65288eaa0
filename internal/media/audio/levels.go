package audio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"jumpcut/internal/services"
)

// ErrNotWAV is returned for files go-audio cannot read as PCM WAV.
var ErrNotWAV = fmt.Errorf("%w: not a PCM WAV file", services.ErrMalformedInput)

// readChunk is the number of samples decoded per PCMBuffer call.
const readChunk = 8192

// Info describes a decoded WAV stream.
type Info struct {
	SampleRate int
	Channels   int
	BitDepth   int
	// SamplesPerFrame counts samples per channel in one analysis frame.
	SamplesPerFrame int
}

// FrameSeconds returns the exact duration of one analysis frame.
func (i Info) FrameSeconds() float64 {
	return float64(i.SamplesPerFrame) / float64(i.SampleRate)
}

// FrameLevels returns the peak-to-peak amplitude of every frameLength slice
// of the WAV at path. A trailing partial frame is measured too. Samples of
// all channels in a frame contribute, so pass a mono file for per-channel
// independence.
func FrameLevels(path string, frameLength float64) ([]float64, Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Info{}, fmt.Errorf("open wav: %w", err)
	}
	defer f.Close()

	dec, info, err := openDecoder(f, frameLength)
	if err != nil {
		return nil, Info{}, err
	}

	frameSamples := info.SamplesPerFrame * info.Channels
	var levels []float64
	var lo, hi, count int
	err = readSamples(dec, info, func(samples []int) {
		for _, s := range samples {
			if count == 0 {
				lo, hi = s, s
			} else {
				lo, hi = min(lo, s), max(hi, s)
			}
			count++
			if count == frameSamples {
				levels = append(levels, float64(hi-lo))
				count = 0
			}
		}
	})
	if err != nil {
		return nil, Info{}, err
	}
	if count > 0 {
		levels = append(levels, float64(hi-lo))
	}
	return levels, info, nil
}

func openDecoder(r io.ReadSeeker, frameLength float64) (*wav.Decoder, Info, error) {
	if !(frameLength > 0) || math.IsInf(frameLength, 0) {
		return nil, Info{}, fmt.Errorf("%w: frame length must be positive (got %v)", services.ErrConfiguration, frameLength)
	}
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, Info{}, ErrNotWAV
	}
	format := dec.Format()
	if format == nil || format.SampleRate <= 0 || format.NumChannels <= 0 {
		return nil, Info{}, fmt.Errorf("%w: missing format chunk", ErrNotWAV)
	}
	info := Info{
		SampleRate: format.SampleRate,
		Channels:   format.NumChannels,
		BitDepth:   int(dec.BitDepth),
	}
	info.SamplesPerFrame = max(1, int(math.Round(frameLength*float64(info.SampleRate))))
	return dec, info, nil
}

func readSamples(dec *wav.Decoder, info Info, fn func([]int)) error {
	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{NumChannels: info.Channels, SampleRate: info.SampleRate},
		Data:   make([]int, readChunk*info.Channels),
	}
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: decode wav: %w", services.ErrMalformedInput, err)
		}
		if n == 0 {
			return nil
		}
		fn(buf.Data[:n])
	}
}
