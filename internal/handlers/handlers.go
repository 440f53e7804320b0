package handlers

import (
	"time"

	"m3u-parser/internal/database"
	"m3u-parser/internal/playlist"
	"m3u-parser/internal/source"
	"m3u-parser/internal/startup"
)

// Handlers serves the playlist API.
type Handlers struct {
	db             *database.Database
	registry       *playlist.Registry
	parser         *playlist.Parser
	opener         *source.Opener
	maxUploadBytes int64
	importWorkers  int
	startTime      time.Time
}

// New creates the handlers. reg is shared with the catalog and must not be
// modified while the server is running.
func New(db *database.Database, reg *playlist.Registry, opener *source.Opener, config *startup.Config) *Handlers {
	maxUpload := config.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = startup.DefaultMaxUploadBytes
	}
	return &Handlers{
		db:             db,
		registry:       reg,
		parser:         playlist.NewParser(reg),
		opener:         opener,
		maxUploadBytes: maxUpload,
		importWorkers:  config.ImportWorkers,
		startTime:      time.Now(),
	}
}
