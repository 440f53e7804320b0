package streaming

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"m3u-parser/internal/logging"
)

// Sentinel errors for streaming operations.
var (
	// ErrWriteTimeout indicates that a write did not complete within the
	// configured timeout, typically because the client reads too slowly.
	ErrWriteTimeout = errors.New("write timeout exceeded")

	// ErrClientGone indicates that the request context ended before the
	// response was complete.
	ErrClientGone = errors.New("client disconnected")
)

// WriterConfig configures a Writer.
type WriterConfig struct {
	// WriteTimeout bounds each write to the connection (0 = no deadline)
	WriteTimeout time.Duration
	// FlushBytes flushes the response after this many bytes (0 = never)
	FlushBytes int
}

// DefaultWriterConfig returns the configuration used for playlist exports.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		WriteTimeout: 30 * time.Second,
		FlushBytes:   64 * 1024,
	}
}

// Writer writes a response body with a per-write deadline and periodic
// flushing. It is not safe for concurrent use.
type Writer struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	ctx       context.Context
	config    WriterConfig
	startTime time.Time
	written   int64
	unflushed int
	deadlines bool
}

// NewWriter wraps w. ctx is normally the request context.
func NewWriter(ctx context.Context, w http.ResponseWriter, config WriterConfig) *Writer {
	return &Writer{
		w:         w,
		rc:        http.NewResponseController(w),
		ctx:       ctx,
		config:    config,
		startTime: time.Now(),
		deadlines: config.WriteTimeout > 0,
	}
}

// Write implements io.Writer.
func (sw *Writer) Write(p []byte) (int, error) {
	if sw.ctx.Err() != nil {
		return 0, ErrClientGone
	}

	if sw.deadlines {
		err := sw.rc.SetWriteDeadline(time.Now().Add(sw.config.WriteTimeout))
		if errors.Is(err, http.ErrNotSupported) {
			sw.deadlines = false
		} else if err != nil {
			return 0, err
		}
	}

	n, err := sw.w.Write(p)
	sw.written += int64(n)
	sw.unflushed += n
	if err != nil {
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return n, fmt.Errorf("%w after %d bytes", ErrWriteTimeout, sw.written)
		}
		return n, err
	}

	if sw.config.FlushBytes > 0 && sw.unflushed >= sw.config.FlushBytes {
		if err := sw.flush(); err != nil {
			return n, err
		}
	}
	return n, nil
}

func (sw *Writer) flush() error {
	sw.unflushed = 0
	if err := sw.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// Close flushes pending data and clears the write deadline.
func (sw *Writer) Close() error {
	err := sw.flush()
	if sw.deadlines {
		if dErr := sw.rc.SetWriteDeadline(time.Time{}); dErr != nil {
			err = errors.Join(err, dErr)
		}
	}
	logging.Debug("Stream completed: %d bytes in %v", sw.written, time.Since(sw.startTime))
	return err
}

// Stats returns the bytes written so far and the time since creation.
func (sw *Writer) Stats() (bytesWritten int64, duration time.Duration) {
	return sw.written, time.Since(sw.startTime)
}
