// Package logging provides leveled logging for the playlist service and
// the m3uparse command.
//
// Levels, from most to least verbose:
//   - DEBUG: skipped playlist lines, dropped directives, route listings
//   - INFO: startup sections, imports, general operation
//   - WARN: recoverable configuration or fetch problems
//   - ERROR: failed requests and storage errors
//   - FATAL: errors that terminate the process
//
// The level comes from the DEBUG or LOG_LEVEL environment variables and can
// be overridden at runtime with SetLevel (the CLI's --verbose flag does
// this). Output goes through the standard library log package, so
// log.SetOutput redirects it.
package logging
