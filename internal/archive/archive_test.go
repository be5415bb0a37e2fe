package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readZip(t *testing.T, a *Archive) map[string]string {
	t.Helper()
	data, err := io.ReadAll(a)
	require.NoError(t, err)
	require.Equal(t, a.Size(), int64(len(data)))

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string)
	for _, f := range zr.File {
		assert.Equal(t, zip.Store, f.Method)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = string(body)
	}
	return out
}

func TestNamer(t *testing.T) {
	n := NewNamer()
	assert.Equal(t, "a.webm", n.Assign("a.webm"))
	assert.Equal(t, "a_1.webm", n.Assign("a.webm"))
	assert.Equal(t, "b.webm", n.Assign("b.webm"))
	assert.Equal(t, "a_2.webm", n.Assign("a.webm"))
	assert.Equal(t, "c.webm", n.Assign("c.webm"))
}

func TestNamerSkipsLiteralSuffixedNames(t *testing.T) {
	n := NewNamer()
	assert.Equal(t, "a_1.mp4", n.Assign("a_1.mp4"))
	assert.Equal(t, "a.mp4", n.Assign("a.mp4"))
	assert.Equal(t, "a_2.mp4", n.Assign("a.mp4"))
	assert.Equal(t, "noext", n.Assign("noext"))
	assert.Equal(t, "noext_1", n.Assign("noext"))
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"memory", ModeMemory, false},
		{"disk", ModeDisk, false},
		{"auto", ModeAuto, false},
		{"", ModeMemory, false},
		{"tape", "", true},
		{"Disk", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuilderInMemory(t *testing.T) {
	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	name, err := b.Add("a.webm", strings.NewReader("first"))
	require.NoError(t, err)
	assert.Equal(t, "a.webm", name)

	name, err = b.Add("a.webm", strings.NewReader("second"))
	require.NoError(t, err)
	assert.Equal(t, "a_1.webm", name)
	assert.Equal(t, 2, b.Len())

	a, err := b.Finalize()
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "memory", a.Storage())
	assert.Equal(t, 2, a.Entries())
	assert.Equal(t, map[string]string{"a.webm": "first", "a_1.webm": "second"}, readZip(t, a))
}

func TestBuilderEmptyArchive(t *testing.T) {
	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Empty(t, readZip(t, a))
}

func TestBuilderOnDisk(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(Config{Mode: ModeDisk, SpoolDir: dir})
	require.NoError(t, err)

	_, err = b.Add("clip.mp4", strings.NewReader("video bytes"))
	require.NoError(t, err)

	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "disk", a.Storage())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".zip"))

	assert.Equal(t, map[string]string{"clip.mp4": "video bytes"}, readZip(t, a))

	require.NoError(t, a.Close())
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestBuilderAutoSpillsToDisk(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(Config{Mode: ModeAuto, MemoryLimit: 64, SpoolDir: dir})
	require.NoError(t, err)

	_, err = b.Add("small.webm", strings.NewReader("x"))
	require.NoError(t, err)
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries, "small archive should stay in memory")

	big := strings.Repeat("v", 1024)
	_, err = b.Add("big.webm", strings.NewReader(big))
	require.NoError(t, err)

	a, err := b.Finalize()
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, "disk", a.Storage())
	assert.Equal(t, map[string]string{"small.webm": "x", "big.webm": big}, readZip(t, a))
}

func TestBuilderAutoStaysInMemoryUnderLimit(t *testing.T) {
	b, err := NewBuilder(Config{Mode: ModeAuto, MemoryLimit: 1 << 20, SpoolDir: t.TempDir()})
	require.NoError(t, err)
	_, err = b.Add("a.mov", strings.NewReader("tiny"))
	require.NoError(t, err)

	a, err := b.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "memory", a.Storage())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestBuilderPoisonedAfterWriteError(t *testing.T) {
	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	_, err = b.Add("ok.webm", strings.NewReader("fine"))
	require.NoError(t, err)

	_, err = b.Add("bad.webm", failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")

	_, err2 := b.Add("later.webm", strings.NewReader("never"))
	assert.Equal(t, err, err2)

	a, err3 := b.Finalize()
	assert.Nil(t, a)
	assert.Equal(t, err, err3)
}

func TestBuilderFinalizeOnce(t *testing.T) {
	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	_, err = b.Finalize()
	require.NoError(t, err)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = b.Add("a.mp4", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestBuilderDiscardRemovesSpool(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(Config{Mode: ModeDisk, SpoolDir: dir})
	require.NoError(t, err)
	_, err = b.Add("a.mp4", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, b.Discard())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = b.Finalize()
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestArchiveCloseRunsHookOnce(t *testing.T) {
	dir := t.TempDir()
	b, err := NewBuilder(Config{Mode: ModeDisk, SpoolDir: dir})
	require.NoError(t, err)
	_, err = b.Add("a.mp4", strings.NewReader("x"))
	require.NoError(t, err)
	arc, err := b.Finalize()
	require.NoError(t, err)

	calls := 0
	arc.OnClose(func() error {
		calls++
		// The spool file is gone before the hook runs.
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries)
		return errors.New("release failed")
	})

	assert.EqualError(t, arc.Close(), "release failed")
	assert.NoError(t, arc.Close())
	assert.Equal(t, 1, calls)
}

func TestBuilderDiskModeBadDirectory(t *testing.T) {
	_, err := NewBuilder(Config{Mode: ModeDisk, SpoolDir: "/nonexistent/spool/dir"})
	assert.Error(t, err)
}

func TestBuilderConcurrentAdds(t *testing.T) {
	b, err := NewBuilder(Config{})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := b.Add(fmt.Sprintf("f%02d.webm", i), strings.NewReader(strings.Repeat("z", i+1)))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	a, err := b.Finalize()
	require.NoError(t, err)
	files := readZip(t, a)
	assert.Len(t, files, 20)
	assert.Equal(t, strings.Repeat("z", 20), files["f19.webm"])
}
