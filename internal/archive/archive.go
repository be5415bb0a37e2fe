package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"video-converter/internal/metrics"
)

// ErrFinalized is returned by Add or Finalize after Finalize has run.
var ErrFinalized = errors.New("archive already finalized")

// Config selects archive storage.
type Config struct {
	Mode Mode
	// MemoryLimit is the ModeAuto threshold in bytes.
	MemoryLimit int64
	// SpoolDir receives the spool file in ModeDisk and ModeAuto.
	SpoolDir string
}

// Builder accumulates entries into a zip archive. Add and Finalize may be
// called from multiple goroutines; writes are serialized.
type Builder struct {
	mu        sync.Mutex
	spool     *spool
	zw        *zip.Writer
	names     *Namer
	entries   int
	err       error
	finalized bool
	now       func() time.Time
}

// NewBuilder creates an empty archive.
func NewBuilder(cfg Config) (*Builder, error) {
	mode := cfg.Mode
	if mode == "" {
		mode = ModeMemory
	}
	limit := cfg.MemoryLimit
	if limit <= 0 {
		limit = DefaultMemoryLimit
	}

	s, err := newSpool(mode, limit, cfg.SpoolDir)
	if err != nil {
		return nil, err
	}

	return &Builder{
		spool: s,
		zw:    zip.NewWriter(s),
		names: NewNamer(),
		now:   time.Now,
	}, nil
}

// Add appends one entry read from r and returns the name actually used,
// which differs from name only when name was already taken. Any error
// leaves the builder unusable.
func (b *Builder) Add(name string, r io.Reader) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return "", ErrFinalized
	}
	if b.err != nil {
		return "", b.err
	}

	used := b.names.Assign(name)
	w, err := b.zw.CreateHeader(&zip.FileHeader{
		Name:     used,
		Method:   zip.Store,
		Modified: b.now(),
	})
	if err != nil {
		b.err = fmt.Errorf("failed to add %s to archive: %w", used, err)
		return "", b.err
	}
	if _, err := io.Copy(w, r); err != nil {
		b.err = fmt.Errorf("failed to write %s to archive: %w", used, err)
		return "", b.err
	}

	b.entries++
	metrics.ArchiveEntriesTotal.Inc()
	return used, nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.entries
}

// Finalize writes the zip directory and returns the finished archive. It
// may be called once.
func (b *Builder) Finalize() (*Archive, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return nil, ErrFinalized
	}
	b.finalized = true

	if b.err != nil {
		_ = b.spool.discard()
		return nil, b.err
	}
	if err := b.zw.Close(); err != nil {
		_ = b.spool.discard()
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	r, err := b.spool.reader()
	if err != nil {
		_ = b.spool.discard()
		return nil, err
	}

	metrics.ArchiveSizeBytes.Observe(float64(b.spool.size))
	metrics.ArchiveSpoolTotal.WithLabelValues(b.spool.storage()).Inc()

	return &Archive{ReadSeeker: r, size: b.spool.size, entries: b.entries, storage: b.spool.storage(), spool: b.spool}, nil
}

// Discard releases the builder's storage without producing an archive.
func (b *Builder) Discard() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.finalized {
		return nil
	}
	b.finalized = true
	return b.spool.discard()
}

// Archive is a finished zip, readable from the start.
type Archive struct {
	io.ReadSeeker
	size    int64
	entries int
	storage string
	spool   *spool
	onClose func() error
}

// Size returns the archive length in bytes.
func (a *Archive) Size() int64 {
	return a.size
}

// Entries returns the number of files in the archive.
func (a *Archive) Entries() int {
	return a.entries
}

// Storage reports "memory" or "disk".
func (a *Archive) Storage() string {
	return a.storage
}

// OnClose registers fn to run once Close has released the archive's own
// storage. Only the last registered fn runs.
func (a *Archive) OnClose(fn func() error) {
	a.onClose = fn
}

// Close releases the archive's storage, removing any spool file, and then
// runs the OnClose hook. Later calls do nothing.
func (a *Archive) Close() error {
	err := a.spool.discard()
	if fn := a.onClose; fn != nil {
		a.onClose = nil
		err = errors.Join(err, fn())
	}
	return err
}
