// Package config loads, normalizes, and validates jumpcut configuration.
//
// It supplies defaults for every knob the analysis and rendering stages use,
// expands user paths (including tilde shortcuts), reads TOML files, and
// reports validation failures with the dotted key that caused them. Tool
// binaries may also be supplied through JUMPCUT_FFMPEG and JUMPCUT_FFPROBE.
package config
