// Package preflight provides readiness checks for the external tools and
// filesystem paths jumpcut depends on.
//
// These checks run in two contexts:
//   - The render command calls RunAll before touching the source, so a
//     missing ffmpeg or unwritable work directory fails fast instead of
//     after minutes of analysis.
//   - The CLI "jumpcut check" command prints every result as a table.
//
// The cache directory is only checked when the analysis cache is enabled.
package preflight
