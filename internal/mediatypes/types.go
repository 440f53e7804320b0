package mediatypes

import (
	"net/url"
	"path"
	"strings"
)

// Kind classifies what a media reference points at.
type Kind string

const (
	// KindHLS is an HLS media playlist or master playlist.
	KindHLS Kind = "hls"
	// KindDASH is a DASH manifest.
	KindDASH Kind = "dash"
	// KindVideo is a video file or transport stream segment.
	KindVideo Kind = "video"
	// KindAudio is an audio file.
	KindAudio Kind = "audio"
	// KindPlaylist is a nested non-HLS playlist.
	KindPlaylist Kind = "playlist"
	// KindStream is a network reference without a recognized extension,
	// typically a live channel.
	KindStream Kind = "stream"
	// KindOther is a local reference without a recognized extension.
	KindOther Kind = "other"
)

// VideoExtensions maps file extensions to whether they are video formats.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".mpeg": true,
	".mpg":  true,
	".3gp":  true,
	".ts":   true,
}

// AudioExtensions maps file extensions to whether they are audio formats.
var AudioExtensions = map[string]bool{
	".mp3":  true,
	".aac":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
}

// PlaylistExtensions maps file extensions to whether they are playlist formats.
var PlaylistExtensions = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
	".xspf": true,
	".wpl":  true,
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Videos
	".mp4":  "video/mp4",
	".mkv":  "video/x-matroska",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".wmv":  "video/x-ms-wmv",
	".flv":  "video/x-flv",
	".webm": "video/webm",
	".m4v":  "video/x-m4v",
	".mpeg": "video/mpeg",
	".mpg":  "video/mpeg",
	".3gp":  "video/3gpp",
	".ts":   "video/mp2t",

	// Audio
	".mp3":  "audio/mpeg",
	".aac":  "audio/aac",
	".m4a":  "audio/mp4",
	".flac": "audio/flac",
	".ogg":  "audio/ogg",
	".opus": "audio/opus",
	".wav":  "audio/wav",
	".wma":  "audio/x-ms-wma",

	// Playlists and manifests
	".m3u":  "audio/x-mpegurl",
	".m3u8": "application/vnd.apple.mpegurl",
	".mpd":  "application/dash+xml",
	".pls":  "audio/x-scpls",
	".xspf": "application/xspf+xml",
	".wpl":  "application/vnd.ms-wpl",
}

// Extension returns the lowercase extension of a media reference, ignoring
// any query string or fragment of a URL.
func Extension(ref string) string {
	p := ref
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" && u.Opaque == "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.ToLower(path.Ext(strings.ReplaceAll(p, "\\", "/")))
}

// isNetwork reports whether ref has a URL scheme other than file, ignoring
// single-letter schemes that are really drive letters.
func isNetwork(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return len(u.Scheme) > 1 && u.Scheme != "file"
}

// Classify returns the Kind of a media reference.
func Classify(ref string) Kind {
	ext := Extension(ref)
	switch {
	case ext == ".m3u8":
		return KindHLS
	case ext == ".mpd":
		return KindDASH
	case VideoExtensions[ext]:
		return KindVideo
	case AudioExtensions[ext]:
		return KindAudio
	case PlaylistExtensions[ext]:
		return KindPlaylist
	case isNetwork(ref):
		return KindStream
	default:
		return KindOther
	}
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp3").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}

// IsPlaylistFile reports whether name looks like an M3U playlist file.
func IsPlaylistFile(name string) bool {
	ext := Extension(name)
	return ext == ".m3u" || ext == ".m3u8"
}
