// Package database provides the SQLite catalog of imported playlists.
//
// It stores, per playlist:
//   - a summary row (name, source, entry and parse error counts)
//   - every entry in order, with its directives kept as canonical text lines
//   - the per-line parse errors recorded while parsing
//
// Stored directives are parsed again on read with the catalog's parser, so
// entries come back as playlist.Entry values with typed tags.
//
// The database uses WAL mode for concurrent reads and enforces foreign keys
// so deleting a playlist removes its entries and errors.
package database
