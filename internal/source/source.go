package source

import (
	"context"
	"io"
)

// Opener resolves playlist locations to readers.
type Opener struct {
	fetcher *Fetcher
}

// NewOpener returns an opener that downloads URLs with fetcher.
func NewOpener(fetcher *Fetcher) *Opener {
	if fetcher == nil {
		fetcher = NewFetcher(DefaultFetcherConfig())
	}
	return &Opener{fetcher: fetcher}
}

// Open returns a reader over the playlist at location: an http(s) URL or a
// local path.
func (o *Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if IsRemote(location) {
		return o.fetcher.Open(ctx, location)
	}
	return OpenFile(location)
}

// Fetcher returns the fetcher used for remote locations.
func (o *Opener) Fetcher() *Fetcher {
	return o.fetcher
}
