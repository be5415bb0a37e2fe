package transcoder

import (
	"fmt"
	"strings"
)

// Kind classifies a conversion failure.
type Kind int

const (
	// KindAdapter covers failures around the tool: missing input, launch
	// failure, cancellation, or output that is empty or the wrong container.
	KindAdapter Kind = iota
	// KindTool means FFmpeg ran and exited non-zero.
	KindTool
	// KindTimeout means the per-file time limit was exceeded.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindAdapter:
		return "adapter"
	case KindTool:
		return "tool"
	case KindTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ConversionError describes why one file failed to convert. Its Error text
// is safe to show to clients.
type ConversionError struct {
	Kind   Kind
	Detail string
	// Stderr holds the tail of FFmpeg's diagnostic output for KindTool.
	Stderr string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Kind == KindTool {
		msg := strings.TrimSpace(e.Stderr)
		if msg == "" {
			msg = e.Detail
		}
		return "FFmpeg error: " + msg
	}
	return "Conversion error: " + e.Detail
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func adapterError(err error, format string, args ...interface{}) *ConversionError {
	return &ConversionError{Kind: KindAdapter, Detail: fmt.Sprintf(format, args...), Err: err}
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	max       int
	buf       []byte
	truncated bool
}

func newTailBuffer(max int) *tailBuffer {
	return &tailBuffer{max: max}
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if n >= b.max {
		b.buf = append(b.buf[:0], p[n-b.max:]...)
		b.truncated = true
		return n, nil
	}
	if over := len(b.buf) + n - b.max; over > 0 {
		b.buf = append(b.buf[:0], b.buf[over:]...)
		b.truncated = true
	}
	b.buf = append(b.buf, p...)
	return n, nil
}

func (b *tailBuffer) String() string {
	if b.truncated {
		return "..." + string(b.buf)
	}
	return string(b.buf)
}
