package batch

import (
	"context"
	"errors"
	"io"

	"video-converter/internal/archive"
	"video-converter/internal/mediatypes"
)

var (
	// ErrWorkspaceSetup means temporary storage for the batch could not be prepared.
	ErrWorkspaceSetup = errors.New("workspace setup failed")
	// ErrArchive means the result archive could not be written.
	ErrArchive = errors.New("archive write failed")
)

// Converter converts one file. A nil error means outputPath holds the result;
// a non-nil error's text is reported to the client.
type Converter interface {
	Convert(ctx context.Context, inputPath, outputPath string, format mediatypes.Format, quality string) error
}

// UploadValidator checks one upload before any work is done for it.
type UploadValidator interface {
	ValidateUpload(filename string, size int64) error
}

// Gate holds back new conversions, for example under memory pressure.
// Wait returns a non-nil error only when ctx ends first.
type Gate interface {
	Wait(ctx context.Context) error
}

// Upload is one file of a request.
type Upload struct {
	// Filename is the client-supplied name.
	Filename string
	// Size is the declared length in bytes, or -1 if unknown.
	Size int64
	// Open returns the file content. It is called at most once.
	Open func() (io.ReadCloser, error)
}

// Request is one conversion batch. Format and Quality are expected to have
// passed request-level validation.
type Request struct {
	Uploads []Upload
	Format  mediatypes.Format
	Quality string
}

// Status is the outcome of one file.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result describes what happened to one upload.
type Result struct {
	Filename string `json:"filename"`
	Status   Status `json:"status"`
	Message  string `json:"message,omitempty"`
	// Output is the archive entry name of a converted file.
	Output string `json:"output,omitempty"`
}

// Outcome is what Process produced. Archive is nil when no file converted;
// otherwise the caller owns it and must Close it, which also releases the
// batch workspace.
type Outcome struct {
	Archive *archive.Archive
	Results []Result
}

// Succeeded returns the number of successful results.
func (o *Outcome) Succeeded() int {
	n := 0
	for _, r := range o.Results {
		if r.Status == StatusSuccess {
			n++
		}
	}
	return n
}
