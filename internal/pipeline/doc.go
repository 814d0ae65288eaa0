// Package pipeline turns per-frame loudness levels into a render plan.
//
// BuildPlan runs the pure stages in order (classify, pad, encode runs, build
// the timeline and time map, compile chunked expressions) with a Settings
// value projected from configuration. Nothing here touches the filesystem or
// spawns processes; media I/O lives in the media and render packages.
package pipeline
