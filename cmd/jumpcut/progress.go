package main

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// chunkProgress draws a bar for chunk renders on an interactive terminal.
type chunkProgress struct {
	progress *mpb.Progress
	bar      *mpb.Bar
	last     time.Time
}

func newChunkProgress(w io.Writer, total int) *chunkProgress {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(64))
	bar := p.AddBar(int64(total),
		mpb.PrependDecorators(
			decor.Name("Rendering: "),
			decor.CountersNoUnit("%d / %d"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
			decor.EwmaETA(decor.ET_STYLE_GO, 30),
		),
	)
	return &chunkProgress{progress: p, bar: bar, last: time.Now()}
}

// update matches render.Renderer.Progress.
func (c *chunkProgress) update(done, _ int) {
	now := time.Now()
	c.bar.EwmaSetCurrent(int64(done), now.Sub(c.last))
	c.last = now
}

// finish stops the bar, aborting it when the render did not complete.
func (c *chunkProgress) finish(ok bool) {
	if !ok {
		c.bar.Abort(false)
	}
	c.progress.Wait()
}
