package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"video-converter/internal/archive"
	"video-converter/internal/logging"
	"video-converter/internal/mediatypes"
	"video-converter/internal/metrics"
	"video-converter/internal/transcoder"
	"video-converter/internal/workspace"
)

// Config holds orchestrator settings.
type Config struct {
	// Workers bounds how many files of one batch convert at once. Values
	// below one mean sequential.
	Workers int
	Archive archive.Config
	// Gate, when set, is waited on before each file starts converting.
	Gate Gate
}

// Orchestrator runs conversion batches. It holds no per-request state and
// may serve concurrent requests.
type Orchestrator struct {
	converter Converter
	validator UploadValidator
	provider  workspace.Provider
	cfg       Config
}

// New creates an Orchestrator.
func New(converter Converter, validator UploadValidator, provider workspace.Provider, cfg Config) *Orchestrator {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Orchestrator{
		converter: converter,
		validator: validator,
		provider:  provider,
		cfg:       cfg,
	}
}

// Workers returns the per-batch parallelism.
func (o *Orchestrator) Workers() int {
	return o.cfg.Workers
}

// task is one valid upload waiting to be converted.
type task struct {
	index  int
	upload Upload
	name   string
}

// Process converts every upload in req. Per-file failures are reported in
// the results; the returned error is non-nil only for ErrWorkspaceSetup or
// ErrArchive, in which case the Outcome still carries the results gathered.
func (o *Orchestrator) Process(ctx context.Context, req Request) (*Outcome, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	results, tasks := o.plan(req)
	outcome := &Outcome{}
	metrics.BatchFiles.Observe(float64(len(tasks)))

	finish := func(status string) {
		outcome.Results = compact(results)
		metrics.BatchesTotal.WithLabelValues(status).Inc()
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}

	if len(tasks) == 0 {
		log.Info("Batch has no convertible files (%d rejected)", len(outcome.Results))
		finish("no_success")
		return outcome, nil
	}

	ws, err := o.provider.Acquire(ctx)
	if err != nil {
		log.Error("Failed to prepare workspace: %v", err)
		finish("failed")
		return outcome, fmt.Errorf("%w: %v", ErrWorkspaceSetup, err)
	}
	// The archive may be spooled inside the workspace, so a successful
	// batch hands the release over to Archive.Close.
	release := true
	defer func() {
		if !release {
			return
		}
		if err := ws.Release(); err != nil {
			log.Warn("Failed to release workspace: %v", err)
		}
	}()

	archiveCfg := o.cfg.Archive
	archiveCfg.SpoolDir = ws.SpoolDir()
	builder, err := archive.NewBuilder(archiveCfg)
	if err != nil {
		log.Error("Failed to create archive: %v", err)
		finish("failed")
		return outcome, fmt.Errorf("%w: %v", ErrWorkspaceSetup, err)
	}

	log.Info("Converting %d file(s) to %s (quality=%s, workers=%d)", len(tasks), req.Format, req.Quality, o.cfg.Workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for _, t := range tasks {
		g.Go(func() error {
			res, err := o.run(gctx, ws, builder, req, t)
			results[t.index] = &res
			return err
		})
	}

	if err := g.Wait(); err != nil {
		_ = builder.Discard()
		log.Error("Batch aborted: %v", err)
		finish("failed")
		return outcome, err
	}

	if builder.Len() == 0 {
		_ = builder.Discard()
		finish("no_success")
		log.Warn("No files were converted out of %d", len(tasks))
		return outcome, nil
	}

	arc, err := builder.Finalize()
	if err != nil {
		log.Error("Failed to finalize archive: %v", err)
		finish("failed")
		return outcome, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	arc.OnClose(ws.Release)
	release = false
	outcome.Archive = arc
	finish("success")
	log.Info("Batch finished: %d/%d converted, archive %d bytes (%s) in %v",
		arc.Entries(), len(tasks), arc.Size(), arc.Storage(), time.Since(start))
	return outcome, nil
}

// plan walks the uploads in input order. Rejected uploads get their final
// result here; valid ones become tasks with their archive name already
// assigned, so suffixes follow input order rather than completion order.
func (o *Orchestrator) plan(req Request) ([]*Result, []task) {
	results := make([]*Result, len(req.Uploads))
	var tasks []task
	names := archive.NewNamer()

	for i, up := range req.Uploads {
		if up.Filename == "" {
			continue
		}
		if err := o.validator.ValidateUpload(up.Filename, up.Size); err != nil {
			results[i] = &Result{Filename: up.Filename, Status: StatusError, Message: err.Error()}
			metrics.ConversionsTotal.WithLabelValues(string(req.Format), "invalid").Inc()
			continue
		}
		name := names.Assign(mediatypes.Stem(up.Filename) + req.Format.Extension())
		tasks = append(tasks, task{index: i, upload: up, name: name})
	}
	return results, tasks
}

// run converts one file. The returned error is fatal to the batch; anything
// else is reported through the Result.
func (o *Orchestrator) run(ctx context.Context, ws *workspace.Workspace, builder *archive.Builder, req Request, t task) (res Result, fatal error) {
	log := logging.FromContext(ctx).With("file", t.upload.Filename)
	res = Result{Filename: t.upload.Filename, Status: StatusError}
	start := time.Now()

	metrics.ConversionsInProgress.Inc()
	defer metrics.ConversionsInProgress.Dec()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Panic while converting: %v", r)
			res = Result{Filename: t.upload.Filename, Status: StatusError, Message: fmt.Sprintf("Conversion error: internal error: %v", r)}
			fatal = nil
			recordFailure(req.Format, "internal")
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Message = msgCanceled
		recordFailure(req.Format, "adapter")
		return res, nil
	}
	if o.cfg.Gate != nil {
		if err := o.cfg.Gate.Wait(ctx); err != nil {
			res.Message = msgCanceled
			recordFailure(req.Format, "adapter")
			return res, nil
		}
	}

	inputPath := ws.InputPath(mediatypes.Ext(t.upload.Filename))
	defer ws.Remove(inputPath)
	outputPath := ws.OutputPath(req.Format.Extension())
	defer ws.Remove(outputPath)

	if err := o.save(ws, t.upload, inputPath); err != nil {
		log.Warn("Upload not saved: %v", err)
		if errors.Is(err, errSave) {
			res.Message = errSave.Error()
			recordFailure(req.Format, "internal")
		} else {
			res.Message = err.Error()
			metrics.ConversionsTotal.WithLabelValues(string(req.Format), "invalid").Inc()
		}
		return res, nil
	}

	if err := o.converter.Convert(ctx, inputPath, outputPath, req.Format, req.Quality); err != nil {
		log.Warn("Conversion failed: %v", err)
		res.Message = err.Error()
		recordFailure(req.Format, kindOf(err))
		return res, nil
	}

	f, err := ws.Open(outputPath)
	if err != nil {
		log.Error("Converted output unreadable: %v", err)
		res.Message = "Conversion error: converted file could not be read"
		recordFailure(req.Format, "internal")
		return res, nil
	}
	defer f.Close()

	used, err := builder.Add(t.name, f)
	if err != nil {
		res.Message = "Conversion error: failed to add output to archive"
		recordFailure(req.Format, "internal")
		return res, fmt.Errorf("%w: %v", ErrArchive, err)
	}

	metrics.ConversionsTotal.WithLabelValues(string(req.Format), "success").Inc()
	metrics.ConversionDuration.WithLabelValues(string(req.Format)).Observe(time.Since(start).Seconds())
	log.Debug("Converted to %s in %v", used, time.Since(start))

	return Result{Filename: t.upload.Filename, Status: StatusSuccess, Output: used}, nil
}

const msgCanceled = "Conversion error: request canceled"

// errSave wraps I/O failures while storing an upload. Its text is what
// the client sees.
var errSave = errors.New("Conversion error: failed to save upload")

// save streams the upload to path and re-validates it against the bytes
// actually written, since the declared size may be missing or wrong.
func (o *Orchestrator) save(ws *workspace.Workspace, up Upload, path string) error {
	if up.Open == nil {
		return fmt.Errorf("%w: no content", errSave)
	}
	src, err := up.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", errSave, err)
	}
	defer src.Close()

	dst, err := ws.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %v", errSave, err)
	}
	n, err := io.Copy(dst, src)
	metrics.UploadBytesTotal.Add(float64(n))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", errSave, err)
	}

	return o.validator.ValidateUpload(up.Filename, n)
}

func recordFailure(format mediatypes.Format, kind string) {
	metrics.ConversionsTotal.WithLabelValues(string(format), "error").Inc()
	metrics.ConversionErrorsTotal.WithLabelValues(kind).Inc()
}

func kindOf(err error) string {
	var convErr *transcoder.ConversionError
	if errors.As(err, &convErr) {
		return convErr.Kind.String()
	}
	return "adapter"
}

func compact(slots []*Result) []Result {
	out := make([]Result, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}
