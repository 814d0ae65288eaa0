// Package activity turns per-frame loudness measurements into a boolean
// activity mask and the run-length form the timeline builder consumes.
//
// Classify applies a percentile cutoff, Pad dilates sounded runs by a
// padding span, and EncodeRuns collapses the mask into alternating runs.
// Every function is pure: inputs are never mutated.
package activity
