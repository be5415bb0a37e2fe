package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Mode selects where the archive bytes are held while it is built.
type Mode string

const (
	// ModeMemory keeps the whole archive in memory.
	ModeMemory Mode = "memory"
	// ModeDisk writes the archive to a file in the spool directory.
	ModeDisk Mode = "disk"
	// ModeAuto starts in memory and moves to disk past the memory limit.
	ModeAuto Mode = "auto"
)

// DefaultMemoryLimit is the ModeAuto threshold when none is configured.
const DefaultMemoryLimit int64 = 256 << 20

// ParseMode validates a configured mode. Matching is exact.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMemory, ModeDisk, ModeAuto:
		return m, nil
	case "":
		return ModeMemory, nil
	default:
		return "", fmt.Errorf("unknown archive spool mode %q (want memory, disk or auto)", s)
	}
}

// spool is the byte sink under the zip writer.
type spool struct {
	mode  Mode
	limit int64
	dir   string

	buf  *bytes.Buffer
	file *os.File
	size int64
}

func newSpool(mode Mode, limit int64, dir string) (*spool, error) {
	s := &spool{mode: mode, limit: limit, dir: dir}
	if mode == ModeDisk {
		if err := s.toDisk(); err != nil {
			return nil, err
		}
		return s, nil
	}
	s.buf = new(bytes.Buffer)
	return s, nil
}

func (s *spool) Write(p []byte) (int, error) {
	if s.file == nil && s.mode == ModeAuto && int64(s.buf.Len()+len(p)) > s.limit {
		if err := s.toDisk(); err != nil {
			return 0, err
		}
	}

	var n int
	var err error
	if s.file != nil {
		n, err = s.file.Write(p)
	} else {
		n, err = s.buf.Write(p)
	}
	s.size += int64(n)
	return n, err
}

// toDisk switches the sink to a spool file, moving anything buffered so far.
func (s *spool) toDisk() error {
	if s.dir == "" {
		s.dir = os.TempDir()
	}
	f, err := os.OpenFile(filepath.Join(s.dir, uuid.NewString()+".zip"), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create archive spool file: %w", err)
	}
	if s.buf != nil && s.buf.Len() > 0 {
		if _, err := f.Write(s.buf.Bytes()); err != nil {
			f.Close()
			os.Remove(f.Name())
			return fmt.Errorf("failed to move archive to disk: %w", err)
		}
	}
	s.buf = nil
	s.file = f
	return nil
}

// reader returns a seekable view of everything written, positioned at 0.
func (s *spool) reader() (io.ReadSeeker, error) {
	if s.file == nil {
		return bytes.NewReader(s.buf.Bytes()), nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind archive spool file: %w", err)
	}
	return s.file, nil
}

func (s *spool) storage() string {
	if s.file != nil {
		return string(ModeDisk)
	}
	return string(ModeMemory)
}

// discard releases the spool file, if any.
func (s *spool) discard() error {
	if s.file == nil {
		s.buf = nil
		return nil
	}
	name := s.file.Name()
	closeErr := s.file.Close()
	s.file = nil
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove archive spool file: %w", err)
	}
	return closeErr
}
