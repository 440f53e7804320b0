// Package mediatypes classifies playlist media references.
//
// It has no dependencies beyond the standard library so that the parser,
// the API and the command line tools can share it without import cycles.
//
// Classify looks only at the extension of the reference path, after
// dropping any URL query string or fragment:
//
//	mediatypes.Classify("http://cdn.test/live/index.m3u8?token=x") // KindHLS
//	mediatypes.Classify("http://cdn.test/channel/42")             // KindStream
//	mediatypes.Classify("Music/track01.flac")                     // KindAudio
package mediatypes
