package streaming

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

// ErrWriteTimeout means the client stopped reading for longer than the
// idle timeout.
var ErrWriteTimeout = errors.New("write timeout exceeded")

// Config controls a Writer.
type Config struct {
	// IdleTimeout is how long a single chunk may take to reach the client.
	// Zero disables the deadline.
	IdleTimeout time.Duration
	// ChunkSize bounds how much is written under one deadline.
	ChunkSize int
}

// DefaultConfig returns the settings used for archive downloads.
func DefaultConfig() Config {
	return Config{
		IdleTimeout: 60 * time.Second,
		ChunkSize:   64 * 1024,
	}
}

// Writer is an http.ResponseWriter that pushes the connection's write
// deadline forward before every chunk. Downloads of any size complete as
// long as the client keeps reading; one that stalls is cut off after
// IdleTimeout.
type Writer struct {
	http.ResponseWriter
	rc      *http.ResponseController
	config  Config
	written int64
	// noDeadline is set once the connection turns out not to support
	// write deadlines.
	noDeadline bool
}

// NewWriter wraps w.
func NewWriter(w http.ResponseWriter, config Config) *Writer {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	return &Writer{
		ResponseWriter: w,
		rc:             http.NewResponseController(w),
		config:         config,
	}
}

// Write sends p in chunks, each under a fresh deadline.
func (w *Writer) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		n := min(len(p), w.config.ChunkSize)
		w.extend()

		m, err := w.ResponseWriter.Write(p[:n])
		total += m
		w.written += int64(m)
		if err != nil {
			if isTimeout(err) {
				return total, fmt.Errorf("%w after %d bytes: %v", ErrWriteTimeout, w.written, err)
			}
			return total, err
		}
		p = p[n:]
	}
	return total, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout())
}

func (w *Writer) extend() {
	if w.config.IdleTimeout <= 0 || w.noDeadline {
		return
	}
	if err := w.rc.SetWriteDeadline(time.Now().Add(w.config.IdleTimeout)); errors.Is(err, http.ErrNotSupported) {
		w.noDeadline = true
	}
}

// Close clears the deadline so a kept-alive connection is not affected
// by it afterwards.
func (w *Writer) Close() error {
	if w.config.IdleTimeout <= 0 || w.noDeadline {
		return nil
	}
	if err := w.rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}

// BytesWritten returns how many body bytes reached the connection.
func (w *Writer) BytesWritten() int64 {
	return w.written
}

// Flush sends buffered data to the client.
func (w *Writer) Flush() {
	_ = w.rc.Flush()
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (w *Writer) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
