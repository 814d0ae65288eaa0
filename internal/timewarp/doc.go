// Package timewarp models the monotonic piecewise-linear function that maps
// source media time to output time.
//
// A timeline is an ordered list of (start, speed) control points built from
// activity runs. Map owns the derived segments, accumulates each segment's
// output offset once at construction, and answers Convert queries with a
// binary search. A Map is immutable and safe to share between the expression
// compiler and the subtitle remapper.
package timewarp
