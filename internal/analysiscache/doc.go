// Package analysiscache persists per-source loudness levels in SQLite so
// repeated plans over the same media skip audio extraction.
//
// Entries are keyed by the absolute source path, its size and modification
// time, the analysis frame length, and the audio stream specifier. Touching
// the source invalidates its entries; Store prunes stale rows for the path.
package analysiscache
