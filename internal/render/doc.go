// Package render turns a plan into an edited media file with ffmpeg.
//
// A render runs inside a per-job directory under the work directory, which
// is held under a flock for the whole job. The stages are:
//   - extract the selected audio stream at full channel count and cut it
//     frame by frame with the padded activity mask
//   - extract the first subtitle stream as ASS and retime it through the
//     time map, when the source has one
//   - render every compiled chunk with `-ss/-to` input seeking and a
//     `setpts` filter, one ffmpeg process per chunk, in order
//   - stitch the clips with the concat demuxer, trimming each clip's seam
//     overlap through inpoint/outpoint, and mux video, audio, and subtitles
//
// Every ffmpeg invocation goes through a CommandRunner so tests can stand in
// for the binary.
package render
