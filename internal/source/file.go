package source

import (
	"fmt"
	"io"

	"m3u-parser/internal/filesystem"
)

// OpenFile opens a local playlist for streaming. The caller closes it.
func OpenFile(path string) (io.ReadCloser, error) {
	config := filesystem.DefaultRetryConfig()

	info, err := filesystem.StatWithRetry(path, config)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	f, err := filesystem.OpenWithRetry(path, config)
	if err != nil {
		return nil, err
	}
	return f, nil
}
