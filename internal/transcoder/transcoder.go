package transcoder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"video-converter/internal/logging"
	"video-converter/internal/mediatypes"
)

// stderrTail is how much of FFmpeg's diagnostic output is kept for error messages.
const stderrTail = 2048

// waitDelay bounds how long Wait lingers on FFmpeg's stderr pipe after the
// process has been killed.
const waitDelay = 5 * time.Second

// Config holds transcoder settings.
type Config struct {
	// FFmpegPath is the binary to execute. Defaults to "ffmpeg" on PATH.
	FFmpegPath string
	// Timeout bounds each conversion. Zero disables the limit.
	Timeout time.Duration
	// VerifyOutput checks that the produced file sniffs as the requested container.
	VerifyOutput bool
}

// Transcoder runs FFmpeg conversions and tracks in-flight processes.
type Transcoder struct {
	ffmpegPath string
	timeout    time.Duration
	verify     bool
	processes  map[string]*exec.Cmd
	processMu  sync.Mutex
}

// New creates a new Transcoder instance.
func New(cfg Config) *Transcoder {
	path := cfg.FFmpegPath
	if path == "" {
		path = "ffmpeg"
	}
	return &Transcoder{
		ffmpegPath: path,
		timeout:    cfg.Timeout,
		verify:     cfg.VerifyOutput,
		processes:  make(map[string]*exec.Cmd),
	}
}

// FFmpegPath returns the binary the transcoder executes.
func (t *Transcoder) FFmpegPath() string {
	return t.ffmpegPath
}

// Args returns the FFmpeg argument list for one conversion.
func Args(inputPath, outputPath string, format mediatypes.Format, rate int) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-y",
		"-i", inputPath,
		"-crf", strconv.Itoa(rate),
		"-f", format.Muxer(),
		outputPath,
	}
}

// Convert transcodes inputPath into outputPath with a single synchronous
// FFmpeg invocation. A nil return means outputPath holds the converted file.
// Any failure is a *ConversionError.
func (t *Transcoder) Convert(ctx context.Context, inputPath, outputPath string, format mediatypes.Format, quality string) error {
	rate, ok := Rate(quality)
	if !ok {
		return adapterError(nil, "unknown quality %q", quality)
	}
	if !mediatypes.OutputFormats[format] {
		return adapterError(nil, "unsupported output format %q", format)
	}
	if _, err := os.Stat(inputPath); err != nil {
		return adapterError(err, "input file not found")
	}
	if err := ctx.Err(); err != nil {
		return adapterError(err, "canceled before start")
	}

	runCtx := ctx
	if t.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, t.ffmpegPath, Args(inputPath, outputPath, format, rate)...)
	stderr := newTailBuffer(stderrTail)
	cmd.Stderr = stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	logging.Debug("FFmpeg starting: %s -> %s (format=%s crf=%d)", inputPath, outputPath, format, rate)

	if err := cmd.Start(); err != nil {
		return adapterError(err, "failed to start ffmpeg: %v", err)
	}

	// Track the process
	t.processMu.Lock()
	t.processes[outputPath] = cmd
	t.processMu.Unlock()

	err := cmd.Wait()

	t.processMu.Lock()
	delete(t.processes, outputPath)
	t.processMu.Unlock()

	if err != nil {
		return t.classify(ctx, runCtx, err, stderr.String())
	}

	logging.Debug("FFmpeg finished %s in %v", outputPath, time.Since(start))

	return t.checkOutput(outputPath, format)
}

func (t *Transcoder) classify(parent, runCtx context.Context, err error, stderr string) error {
	if parent.Err() != nil {
		return adapterError(parent.Err(), "canceled")
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return &ConversionError{
			Kind:   KindTimeout,
			Detail: fmt.Sprintf("timed out after %v", t.timeout),
			Stderr: stderr,
			Err:    runCtx.Err(),
		}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		logging.Debug("FFmpeg stderr: %s", stderr)
		return &ConversionError{
			Kind:   KindTool,
			Detail: exitErr.Error(),
			Stderr: stderr,
			Err:    err,
		}
	}
	return adapterError(err, "failed to start ffmpeg: %v", err)
}

func (t *Transcoder) checkOutput(outputPath string, format mediatypes.Format) error {
	info, err := os.Stat(outputPath)
	if err != nil {
		return adapterError(err, "ffmpeg produced no output")
	}
	if info.Size() == 0 {
		return adapterError(nil, "ffmpeg produced an empty file")
	}
	if !t.verify {
		return nil
	}

	mtype, err := mimetype.DetectFile(outputPath)
	if err != nil {
		return adapterError(err, "failed to inspect output: %v", err)
	}
	if !matchesMime(mtype, format.MimeType()) {
		return adapterError(nil, "output is %s, expected %s", mtype.String(), format.MimeType())
	}
	return nil
}

// matchesMime reports whether mtype or one of its ancestors is expected.
func matchesMime(mtype *mimetype.MIME, expected string) bool {
	for m := mtype; m != nil; m = m.Parent() {
		if m.Is(expected) {
			return true
		}
	}
	return false
}

// CheckAvailable verifies that the FFmpeg binary can be executed.
func (t *Transcoder) CheckAvailable(ctx context.Context) error {
	_, err := t.Version(ctx)
	return err
}

// Version returns the first line of `ffmpeg -version`.
func (t *Transcoder) Version(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, t.ffmpegPath, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("ffmpeg not available at %q: %w", t.ffmpegPath, err)
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// ActiveCount returns the number of FFmpeg processes currently running.
func (t *Transcoder) ActiveCount() int {
	t.processMu.Lock()
	defer t.processMu.Unlock()
	return len(t.processes)
}

// Cleanup stops all active conversion processes.
func (t *Transcoder) Cleanup() {
	t.processMu.Lock()
	defer t.processMu.Unlock()

	for path, cmd := range t.processes {
		if cmd.Process != nil {
			logging.Info("Killing conversion process for: %s", path)
			if err := cmd.Process.Kill(); err != nil {
				logging.Warn("failed to kill conversion process for %s: %v", path, err)
			}
		}
	}
}
