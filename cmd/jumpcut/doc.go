// Command jumpcut shortens recordings by speeding through their quiet parts.
//
// It measures per-frame loudness of the audio track, classifies frames as
// active or silent, and compiles a piecewise time warp into chunked ffmpeg
// setpts expressions. Subcommands expose each step:
//
//	jumpcut analyze <media>            loudness summary (cached)
//	jumpcut plan <media>               timeline and expression chunks
//	jumpcut subtitles <media> <in> <out>  retime an ASS file
//	jumpcut audio <media> <out>        cut silent audio only
//	jumpcut render <media> <out>       full edit with ffmpeg
//	jumpcut cache stats|clear          analysis cache maintenance
//	jumpcut check                      tool and directory preflight
//	jumpcut config init|validate       configuration helpers
package main
