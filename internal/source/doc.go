// Package source opens playlists for parsing.
//
// A location is either a local path, opened with filesystem.OpenWithRetry,
// or an http(s) URL downloaded by a Fetcher. Fetched bodies are decoded to
// UTF-8 using the charset declared in Content-Type and kept in a short TTL
// cache so repeated imports of the same URL do not hit the network.
package source
