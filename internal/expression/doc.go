// Package expression serialises a timewarp.Map into ffmpeg setpts
// expressions.
//
// Full emits one nested conditional covering every segment. Chunked splits
// the map into windows whose expressions stay within a maximum length and
// nesting depth; each window's expression measures PTS from the window start
// while output offsets stay absolute. Evaluate interprets the emitted grammar
// so windows can be checked against Map.Convert without running ffmpeg.
package expression
