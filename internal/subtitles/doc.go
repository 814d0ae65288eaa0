// Package subtitles retimes Advanced SubStation Alpha (ASS/SSA) subtitle
// scripts through a time warp.
//
// Only the Start and End fields of Dialogue events are rewritten. Script
// headers, styles, other event types, and everything after the events block
// are copied byte for byte.
package subtitles
