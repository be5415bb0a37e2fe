package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"video-converter/internal/batch"
	"video-converter/internal/logging"
	"video-converter/internal/mediatypes"
	"video-converter/internal/metrics"
	"video-converter/internal/middleware"
	"video-converter/internal/streaming"
	"video-converter/internal/validation"
)

const (
	// FilesField is the repeated multipart field carrying the uploads.
	FilesField   = "videos[]"
	formatField  = "format"
	qualityField = "quality"

	archiveName = "converted_videos.zip"
)

const (
	msgRequestTooLarge = "Request too large"
	msgBadMultipart    = "Invalid multipart request"
	msgNoneConverted   = "No files were successfully converted"
	msgFailedPrefix    = "Conversion failed: "
)

// errorResponse is the body of a failed batch.
type errorResponse struct {
	Error   string         `json:"error"`
	Results []batch.Result `json:"results"`
}

// Convert handles POST /api/convert. It converts every uploaded file to
// the requested format and answers with a zip of the outputs, listing the
// per-file outcome in the X-Conversion-Results header.
func (h *Handlers) Convert(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	if h.cfg.MaxRequestSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxRequestSize)
	}

	if err := r.ParseMultipartForm(h.cfg.MultipartMemory); err != nil {
		h.reject(w, r, parseFailure(err))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			log.Warn("Failed to remove multipart temp files: %v", err)
		}
	}()

	form := r.MultipartForm
	files := form.File[FilesField]
	if len(files) == 0 {
		if _, present := form.Value[FilesField]; present {
			// Parts without a filename, as browsers send for an empty file input.
			h.reject(w, r, rejection{http.StatusBadRequest, validation.ErrNoFilesSelected.Error()})
			return
		}
		h.reject(w, r, rejection{http.StatusBadRequest, validation.ErrNoFiles.Error()})
		return
	}

	format := firstValue(form, formatField)
	quality, present := form.Value[qualityField]
	q := ""
	if present && len(quality) > 0 {
		q = quality[0]
	}
	q = validation.NormalizeQuality(q, present)

	if err := h.validator.ValidateRequestParams(format, q); err != nil {
		h.reject(w, r, rejection{http.StatusBadRequest, err.Error()})
		return
	}
	target, _ := mediatypes.ParseFormat(format)

	req := batch.Request{Format: target, Quality: q, Uploads: make([]batch.Upload, 0, len(files))}
	for _, fh := range files {
		req.Uploads = append(req.Uploads, batch.Upload{
			Filename: fh.Filename,
			Size:     fh.Size,
			Open:     openPart(fh),
		})
	}

	start := time.Now()
	outcome, err := h.batch.Process(r.Context(), req)
	if err != nil {
		log.Error("Batch conversion failed: %v", err)
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{
			Error:   msgFailedPrefix + failureDetail(err),
			Results: nonNil(outcome),
		})
		return
	}

	if outcome.Archive == nil {
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{
			Error:   msgNoneConverted,
			Results: nonNil(outcome),
		})
		return
	}
	defer func() {
		if err := outcome.Archive.Close(); err != nil {
			log.Warn("Failed to release archive: %v", err)
		}
	}()

	header, err := headerJSON(outcome.Results)
	if err != nil {
		log.Error("Failed to encode conversion results: %v", err)
		writeJSONStatus(w, http.StatusInternalServerError, errorResponse{
			Error:   msgFailedPrefix + "could not encode results",
			Results: outcome.Results,
		})
		return
	}

	w.Header().Set("Content-Type", mediatypes.GetMimeType(".zip"))
	w.Header().Set("Content-Disposition", `attachment; filename="`+archiveName+`"`)
	w.Header().Set(middleware.ResultsHeader, header)
	w.Header().Set("Cache-Control", "no-store")

	log.Info("Sending %s: %d of %d file(s) converted, %d bytes, processed in %v",
		archiveName, outcome.Succeeded(), len(outcome.Results), outcome.Archive.Size(), time.Since(start))

	sw := streaming.NewWriter(w, streaming.Config{IdleTimeout: h.cfg.DownloadIdleTimeout})
	http.ServeContent(sw, r, archiveName, start, outcome.Archive)
	if err := sw.Close(); err != nil {
		log.Debug("Failed to clear write deadline: %v", err)
	}
	log.Debug("Archive delivery wrote %d of %d bytes", sw.BytesWritten(), outcome.Archive.Size())
}

// rejection is a request refused before any file was processed.
type rejection struct {
	status  int
	message string
}

func (h *Handlers) reject(w http.ResponseWriter, r *http.Request, rej rejection) {
	logging.FromContext(r.Context()).Info("Conversion request rejected (%d): %s", rej.status, rej.message)
	metrics.BatchesTotal.WithLabelValues("rejected").Inc()
	writeJSONError(w, rej.message, rej.status)
}

// parseFailure maps a ParseMultipartForm error to a response.
func parseFailure(err error) rejection {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return rejection{http.StatusRequestEntityTooLarge, msgRequestTooLarge}
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		// Nothing that could hold files was sent.
		return rejection{http.StatusBadRequest, validation.ErrNoFiles.Error()}
	default:
		return rejection{http.StatusBadRequest, msgBadMultipart}
	}
}

// failureDetail is the client-facing part of a fatal batch error.
func failureDetail(err error) string {
	switch {
	case errors.Is(err, batch.ErrWorkspaceSetup):
		return batch.ErrWorkspaceSetup.Error()
	case errors.Is(err, batch.ErrArchive):
		return batch.ErrArchive.Error()
	default:
		return "internal error"
	}
}

func firstValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func openPart(fh *multipart.FileHeader) func() (io.ReadCloser, error) {
	return func() (io.ReadCloser, error) {
		return fh.Open()
	}
}

func nonNil(o *batch.Outcome) []batch.Result {
	if o == nil || o.Results == nil {
		return []batch.Result{}
	}
	return o.Results
}
