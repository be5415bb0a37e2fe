package handlers

import (
	"context"
	"time"

	"video-converter/internal/batch"
	"video-converter/internal/workspace"
)

// BatchProcessor runs one conversion batch.
type BatchProcessor interface {
	Process(ctx context.Context, req batch.Request) (*batch.Outcome, error)
}

// ParamValidator checks request-level conversion parameters.
type ParamValidator interface {
	ValidateRequestParams(format, quality string) error
}

// FFmpeg is the part of the transcoder the probes report on.
type FFmpeg interface {
	CheckAvailable(ctx context.Context) error
	Version(ctx context.Context) (string, error)
	ActiveCount() int
}

// Config holds request limits.
type Config struct {
	// MaxRequestSize bounds the whole request body.
	MaxRequestSize int64
	// MultipartMemory is how much of a multipart body is held in memory
	// before file parts spill to temporary files.
	MultipartMemory int64
	// DownloadIdleTimeout cuts off a client that stops reading the archive.
	// Zero disables it.
	DownloadIdleTimeout time.Duration
	// Workers is reported by the health endpoint.
	Workers int
}

type Handlers struct {
	batch     BatchProcessor
	validator ParamValidator
	ffmpeg    FFmpeg
	provider  workspace.Provider
	cfg       Config
	startTime time.Time
}

func New(processor BatchProcessor, validator ParamValidator, ffmpeg FFmpeg, provider workspace.Provider, cfg Config) *Handlers {
	if cfg.MultipartMemory <= 0 {
		cfg.MultipartMemory = 32 << 20
	}
	return &Handlers{
		batch:     processor,
		validator: validator,
		ffmpeg:    ffmpeg,
		provider:  provider,
		cfg:       cfg,
		startTime: time.Now(),
	}
}
