// Package logging assembles structured slog loggers for the jumpcut CLI.
//
// It owns the console and JSON handlers, level and output plumbing, and
// context-aware helpers that tag log lines with the job ID, stage, and source
// media path stamped by the services package. Render jobs tee their records
// into a per-job JSON log inside the work directory.
package logging
