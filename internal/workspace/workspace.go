package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"video-converter/internal/filesystem"
	"video-converter/internal/logging"
	"video-converter/internal/metrics"
)

// requestDirPattern names per-request directories created by ProcessTemp.
const requestDirPattern = "video-convert-*"

// Provider hands out a Workspace for one request.
type Provider interface {
	Acquire(ctx context.Context) (*Workspace, error)
	// Roots lists the directories this provider writes under, for readiness
	// checks.
	Roots() []string
	// Entries lists the top-level temp paths under Roots that this provider
	// created, for sweeping and usage reporting.
	Entries() ([]string, error)
}

// Workspace is the temporary storage of one request.
type Workspace struct {
	uploadDir string
	outputDir string
	release   func() error
	retry     filesystem.RetryConfig
}

// InputPath returns a fresh path in the upload directory carrying ext,
// which should include the leading dot.
func (w *Workspace) InputPath(ext string) string {
	return filepath.Join(w.uploadDir, uuid.NewString()+ext)
}

// OutputPath returns a fresh path in the output directory carrying ext.
func (w *Workspace) OutputPath(ext string) string {
	return filepath.Join(w.outputDir, uuid.NewString()+ext)
}

// SpoolDir is where a disk-backed archive may be written.
func (w *Workspace) SpoolDir() string {
	return w.outputDir
}

// Create opens path for writing, retrying stale NFS handles.
func (w *Workspace) Create(path string) (*os.File, error) {
	return filesystem.CreateWithRetry(path, w.retry)
}

// Open opens path for reading, retrying stale NFS handles.
func (w *Workspace) Open(path string) (*os.File, error) {
	return filesystem.OpenWithRetry(path, w.retry)
}

// Remove deletes path if it exists. Failures are logged and counted, not
// returned, since nothing useful can be done about them mid-request.
func (w *Workspace) Remove(path string) {
	if path == "" {
		return
	}
	if err := filesystem.RemoveWithRetry(path, w.retry); err != nil {
		logging.Warn("Failed to remove temp file %s: %v", path, err)
		metrics.TempCleanupErrors.WithLabelValues("cleanup").Inc()
		return
	}
	metrics.TempFilesRemovedTotal.WithLabelValues("cleanup").Inc()
}

// Release frees everything the workspace owns. It is safe to call more than once.
func (w *Workspace) Release() error {
	if w.release == nil {
		return nil
	}
	err := w.release()
	w.release = nil
	return err
}

// Dirs serves every request from the same pair of directories.
type Dirs struct {
	UploadDir string
	OutputDir string
	Retry     filesystem.RetryConfig
}

// NewDirs creates a Dirs provider with the default retry policy.
func NewDirs(uploadDir, outputDir string) *Dirs {
	return &Dirs{UploadDir: uploadDir, OutputDir: outputDir, Retry: filesystem.DefaultRetryConfig()}
}

// Acquire makes sure both directories exist.
func (d *Dirs) Acquire(ctx context.Context) (*Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, dir := range []string{d.UploadDir, d.OutputDir} {
		if dir == "" {
			return nil, errors.New("workspace directory not configured")
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return &Workspace{uploadDir: d.UploadDir, outputDir: d.OutputDir, retry: d.Retry}, nil
}

// Roots returns the upload and output directories.
func (d *Dirs) Roots() []string {
	if d.UploadDir == d.OutputDir {
		return []string{d.UploadDir}
	}
	return []string{d.UploadDir, d.OutputDir}
}

// Entries returns the UUID-named files in both directories. Anything else
// an operator keeps there is left alone.
func (d *Dirs) Entries() ([]string, error) {
	var paths []string
	for _, dir := range d.Roots() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", dir, err)
		}
		for _, entry := range entries {
			if entry.Type().IsRegular() && IsTempName(entry.Name()) {
				paths = append(paths, filepath.Join(dir, entry.Name()))
			}
		}
	}
	return paths, nil
}

// IsTempName reports whether name looks like a path handed out by a Workspace.
func IsTempName(name string) bool {
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	_, err := uuid.Parse(stem)
	return err == nil && len(stem) == 36
}

// ProcessTemp creates a private directory per request under Root.
type ProcessTemp struct {
	// Root is the parent directory; empty means os.TempDir().
	Root  string
	Retry filesystem.RetryConfig
}

// NewProcessTemp creates a ProcessTemp provider with the default retry policy.
func NewProcessTemp(root string) *ProcessTemp {
	return &ProcessTemp{Root: root, Retry: filesystem.DefaultRetryConfig()}
}

func (p *ProcessTemp) root() string {
	if p.Root == "" {
		return os.TempDir()
	}
	return p.Root
}

// Acquire creates the request directory. Release removes it with everything inside.
func (p *ProcessTemp) Acquire(ctx context.Context) (*Workspace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(p.root(), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", p.root(), err)
	}
	dir, err := os.MkdirTemp(p.root(), requestDirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create request directory: %w", err)
	}

	return &Workspace{
		uploadDir: dir,
		outputDir: dir,
		retry:     p.Retry,
		release: func() error {
			if err := os.RemoveAll(dir); err != nil {
				return fmt.Errorf("failed to remove request directory %s: %w", dir, err)
			}
			return nil
		},
	}, nil
}

// Roots returns the temp root.
func (p *ProcessTemp) Roots() []string {
	return []string{p.root()}
}

// Entries returns the request directories under the root.
func (p *ProcessTemp) Entries() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(p.root(), requestDirPattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list request directories: %w", err)
	}
	return paths, nil
}

// Usage reports how many regular files and bytes the provider currently holds.
func Usage(p Provider) (files int, bytes int64) {
	entries, err := p.Entries()
	if err != nil {
		logging.Debug("Failed to list temp entries: %v", err)
		return 0, 0
	}
	for _, root := range entries {
		_ = filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.Type().IsRegular() {
				if info, err := d.Info(); err == nil {
					files++
					bytes += info.Size()
				}
			}
			return nil
		})
	}
	return files, bytes
}
