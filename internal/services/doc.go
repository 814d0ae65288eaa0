// Package services defines shared utilities consumed by the pipeline stages
// and the external tool wrappers.
//
// Key responsibilities:
//   - Context helpers that stamp job IDs, stage names, and source paths for
//     logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     (configuration, unsupported, malformed input, external tool) so the CLI
//     can map them to exit codes.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
