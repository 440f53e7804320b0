package database

import (
	"time"

	"m3u-parser/internal/playlist"
)

// Playlist is the summary row of an imported playlist.
type Playlist struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Source     string    `json:"source,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	EntryCount int       `json:"entryCount"`
	ErrorCount int       `json:"errorCount"`
}

// EntryQuery selects a page of stored entries.
type EntryQuery struct {
	Limit  int
	Offset int
	Search string // substring of title or media reference, case-insensitive
}

// EntryPage is one page of stored entries, in playlist order.
type EntryPage struct {
	Total   int               `json:"total"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
	Entries []*playlist.Entry `json:"entries"`
}

// CatalogStats summarizes catalog contents.
type CatalogStats struct {
	Playlists   int       `json:"playlists"`
	Entries     int       `json:"entries"`
	ParseErrors int       `json:"parseErrors"`
	LastImport  time.Time `json:"lastImport"`
}
