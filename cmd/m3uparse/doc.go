// Command m3uparse parses extended M3U/M3U8 playlists from the command line.
//
// Usage:
//
//	m3uparse parse <path|url> [--format auto|table|json|yaml] [--errors]
//	m3uparse tags [--format auto|table|json|yaml]
//	m3uparse scan <dir> [--format auto|table|json|yaml] [--workers N]
//
// The auto format renders a table when stdout is a terminal and JSON
// otherwise. Malformed directives are skipped; --errors prints them to
// stderr. They never change the exit status. A playlist that cannot be
// read exits with status 1.
//
// Environment:
//
//	LOG_LEVEL        - Logging level (debug/info/warn/error, default: info)
//	FETCH_USER_AGENT - User-Agent sent when fetching remote playlists
package main
