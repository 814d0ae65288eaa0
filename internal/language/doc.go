// Package language normalizes the language tags found on ffprobe streams and
// the language names users pass on the command line, so "en", "eng", and
// "English" all select the same audio track.
package language
