// Package playlist parses M3U/M3U8 extended playlists into entries.
//
// An entry is zero or more directive lines (tags such as #EXTINF or
// #KODIPROP) followed by exactly one media reference, a path or URL:
//
//	#EXTM3U
//	#EXTINF:-1 tvg-name="Channel One" group-title="News",Channel One HD
//	#KODIPROP:inputstream.adaptive.license_key=https://example.test/license
//	http://example.test/stream1
//
// Which lines count as directives is decided by a [Registry] of [TagDef]
// values. The first registered definition whose match function accepts a
// line wins. Nothing is registered implicitly; [RegisterDefaults] adds the
// built-in tags:
//   - EXTINF: duration, title and a key=value attribute list
//   - EXTTV: tags, language, XMLTV id and icon URL
//   - EXTVLCOPT, KODIPROP: key=value properties
//   - EXTLOGO, EXTGRP, PLAYLIST, EXTTITLE, EXTALBUMARTURL: single text values
//
// Parsing is pull based. [Parser.Parse] returns a [Stream] that reads from
// its [LineSource] only when the caller asks for the next entry:
//
//	reg := playlist.NewRegistry()
//	playlist.RegisterDefaults(reg)
//
//	stream := playlist.NewParser(reg).Parse(playlist.NewReaderSource(r))
//	for stream.Next() {
//		entry := stream.Entry()
//		fmt.Println(entry.Path)
//	}
//	if err := stream.Err(); err != nil {
//		// the source failed; entries already returned stay valid
//	}
//	for _, perr := range stream.Errors() {
//		// directive lines that were skipped
//	}
//
// Failure handling is split in two. A directive line that matches a tag but
// violates its grammar is skipped and recorded as a [ParseError]; the entry
// it belonged to and the rest of the stream are unaffected. A read failure
// from the source ends the stream and is reported by [Stream.Err].
//
// Lines are accepted with \n, \r\n or bare \r endings. A UTF-8 byte order
// mark on the first line, blank lines, the #EXTM3U header and unrecognized
// lines starting with # are ignored. Directives that are still waiting for a
// media reference when the input ends are dropped without an error.
package playlist
