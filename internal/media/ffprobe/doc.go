// Package ffprobe runs ffprobe with JSON output and decodes the streams and
// container format jumpcut needs to plan a cut.
//
// Inspect is the entry point. Result helpers locate the primary video and
// audio streams, parse rational frame rates and time bases, and read the
// container duration in seconds.
package ffprobe
