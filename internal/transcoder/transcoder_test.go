package transcoder

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video-converter/internal/mediatypes"
	"video-converter/internal/testutil"
)

func TestNew(t *testing.T) {
	trans := New(Config{})
	require.NotNil(t, trans)
	assert.Equal(t, "ffmpeg", trans.FFmpegPath())
	assert.NotNil(t, trans.processes)
	assert.Zero(t, trans.ActiveCount())

	trans = New(Config{FFmpegPath: "/opt/ffmpeg/bin/ffmpeg", Timeout: time.Minute, VerifyOutput: true})
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", trans.FFmpegPath())
	assert.Equal(t, time.Minute, trans.timeout)
	assert.True(t, trans.verify)
}

func TestArgs(t *testing.T) {
	args := Args("/in/a.mkv", "/out/b.webm", mediatypes.FormatWebM, 31)
	assert.Equal(t, []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", "/in/a.mkv",
		"-crf", "31",
		"-f", "webm",
		"/out/b.webm",
	}, args)
}

func TestRate(t *testing.T) {
	tests := []struct {
		quality string
		want    int
		ok      bool
	}{
		{"very low", 36, true},
		{"low", 32, true},
		{"medium", 31, true},
		{"high", 24, true},
		{"very high", 15, true},
		{"HIGH", 24, true},
		{"Very High", 15, true},
		{"ultra", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.quality, func(t *testing.T) {
			got, ok := Rate(tt.quality)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, IsQuality(tt.quality))
		})
	}
}

func TestQualitiesOrdered(t *testing.T) {
	assert.Equal(t, []string{"very low", "low", "medium", "high", "very high"}, Qualities())
	assert.True(t, IsQuality(DefaultQuality))
}

func TestConversionErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ConversionError
		want string
	}{
		{
			name: "tool with stderr",
			err:  &ConversionError{Kind: KindTool, Detail: "exit status 1", Stderr: "Invalid data found\n"},
			want: "FFmpeg error: Invalid data found",
		},
		{
			name: "tool without stderr",
			err:  &ConversionError{Kind: KindTool, Detail: "signal: killed"},
			want: "FFmpeg error: signal: killed",
		},
		{
			name: "adapter",
			err:  &ConversionError{Kind: KindAdapter, Detail: "input file not found"},
			want: "Conversion error: input file not found",
		},
		{
			name: "timeout",
			err:  &ConversionError{Kind: KindTimeout, Detail: "timed out after 1s"},
			want: "Conversion error: timed out after 1s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestConversionErrorUnwrap(t *testing.T) {
	err := adapterError(os.ErrNotExist, "input file not found")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, "adapter", KindAdapter.String())
	assert.Equal(t, "tool", KindTool.String())
	assert.Equal(t, "timeout", KindTimeout.String())
}

func TestTailBuffer(t *testing.T) {
	b := newTailBuffer(8)
	_, _ = b.Write([]byte("abc"))
	assert.Equal(t, "abc", b.String())

	_, _ = b.Write([]byte("defghi"))
	assert.Equal(t, "...bcdefghi", b.String())

	_, _ = b.Write([]byte("0123456789"))
	assert.Equal(t, "...23456789", b.String())
}

func convertErr(t *testing.T, err error) *ConversionError {
	t.Helper()
	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr), "expected *ConversionError, got %T: %v", err, err)
	return convErr
}

func TestConvertSuccess(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, testutil.Succeed)
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mkv", "source")

	for _, format := range []mediatypes.Format{mediatypes.FormatWebM, mediatypes.FormatMP4, mediatypes.FormatMOV, mediatypes.FormatAVI} {
		t.Run(string(format), func(t *testing.T) {
			trans := New(Config{FFmpegPath: ffmpeg, VerifyOutput: true})
			out := filepath.Join(dir, "out"+format.Extension())

			require.NoError(t, trans.Convert(context.Background(), in, out, format, "medium"))

			info, err := os.Stat(out)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
			assert.Zero(t, trans.ActiveCount())
		})
	}
}

func TestConvertPassesArguments(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "args.txt")
	ffmpeg := testutil.FakeFFmpeg(t, `echo "$@" > "`+record+`"`+"\n"+testutil.Succeed)
	in := testutil.WriteFile(t, dir, "in.mov", "source")
	out := filepath.Join(dir, "out.mp4")

	trans := New(Config{FFmpegPath: ffmpeg})
	require.NoError(t, trans.Convert(context.Background(), in, out, mediatypes.FormatMP4, "Very High"))

	got, err := os.ReadFile(record)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(Args(in, out, mediatypes.FormatMP4, 15), " "), strings.TrimSpace(string(got)))
}

func TestConvertToolError(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, `echo "moov atom not found" >&2; exit 1`)
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "garbage")

	trans := New(Config{FFmpegPath: ffmpeg})
	err := trans.Convert(context.Background(), in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "low")

	convErr := convertErr(t, err)
	assert.Equal(t, KindTool, convErr.Kind)
	assert.Equal(t, "FFmpeg error: moov atom not found", convErr.Error())
}

func TestConvertAdapterErrors(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	tests := []struct {
		name    string
		body    string
		input   string
		format  mediatypes.Format
		quality string
		verify  bool
		wantMsg string
	}{
		{
			name:    "missing input",
			body:    testutil.Succeed,
			input:   filepath.Join(dir, "missing.mp4"),
			format:  mediatypes.FormatWebM,
			quality: "medium",
			wantMsg: "Conversion error: input file not found",
		},
		{
			name:    "unknown quality",
			body:    testutil.Succeed,
			input:   in,
			format:  mediatypes.FormatWebM,
			quality: "ultra",
			wantMsg: `Conversion error: unknown quality "ultra"`,
		},
		{
			name:    "unsupported format",
			body:    testutil.Succeed,
			input:   in,
			format:  mediatypes.Format("flv"),
			quality: "medium",
			wantMsg: `Conversion error: unsupported output format "flv"`,
		},
		{
			name:    "no output written",
			body:    "exit 0",
			input:   in,
			format:  mediatypes.FormatWebM,
			quality: "medium",
			wantMsg: "Conversion error: ffmpeg produced no output",
		},
		{
			name:    "empty output",
			body:    `: > "$out"`,
			input:   in,
			format:  mediatypes.FormatWebM,
			quality: "medium",
			wantMsg: "Conversion error: ffmpeg produced an empty file",
		},
		{
			name:    "wrong container",
			body:    `echo "plain text" > "$out"`,
			input:   in,
			format:  mediatypes.FormatWebM,
			quality: "medium",
			verify:  true,
			wantMsg: "Conversion error: output is text/plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trans := New(Config{FFmpegPath: testutil.FakeFFmpeg(t, tt.body), VerifyOutput: tt.verify})
			out := filepath.Join(t.TempDir(), "out"+tt.format.Extension())

			err := trans.Convert(context.Background(), tt.input, out, tt.format, tt.quality)

			convErr := convertErr(t, err)
			assert.Equal(t, KindAdapter, convErr.Kind)
			assert.True(t, strings.HasPrefix(convErr.Error(), tt.wantMsg), "got %q", convErr.Error())
		})
	}
}

func TestConvertUnverifiedAcceptsAnyContent(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, `echo "plain text" > "$out"`)
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	trans := New(Config{FFmpegPath: ffmpeg, VerifyOutput: false})
	assert.NoError(t, trans.Convert(context.Background(), in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "medium"))
}

func TestConvertLaunchFailure(t *testing.T) {
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	trans := New(Config{FFmpegPath: filepath.Join(dir, "no-such-ffmpeg")})
	err := trans.Convert(context.Background(), in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "medium")

	convErr := convertErr(t, err)
	assert.Equal(t, KindAdapter, convErr.Kind)
	assert.Contains(t, convErr.Error(), "Conversion error: failed to start ffmpeg")
}

func TestConvertTimeout(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, "exec sleep 30")
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	trans := New(Config{FFmpegPath: ffmpeg, Timeout: 200 * time.Millisecond})
	start := time.Now()
	err := trans.Convert(context.Background(), in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "medium")

	convErr := convertErr(t, err)
	assert.Equal(t, KindTimeout, convErr.Kind)
	assert.Equal(t, "Conversion error: timed out after 200ms", convErr.Error())
	assert.Less(t, time.Since(start), 10*time.Second)
	assert.Zero(t, trans.ActiveCount())
}

func TestConvertCanceledContext(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, testutil.Succeed)
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	trans := New(Config{FFmpegPath: ffmpeg})
	err := trans.Convert(ctx, in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "medium")

	convErr := convertErr(t, err)
	assert.Equal(t, KindAdapter, convErr.Kind)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanupKillsActiveProcesses(t *testing.T) {
	ffmpeg := testutil.FakeFFmpeg(t, "exec sleep 30")
	dir := t.TempDir()
	in := testutil.WriteFile(t, dir, "in.mp4", "source")

	trans := New(Config{FFmpegPath: ffmpeg})
	done := make(chan error, 1)
	go func() {
		done <- trans.Convert(context.Background(), in, filepath.Join(dir, "out.webm"), mediatypes.FormatWebM, "medium")
	}()

	require.Eventually(t, func() bool { return trans.ActiveCount() == 1 }, 5*time.Second, 10*time.Millisecond)
	trans.Cleanup()

	select {
	case err := <-done:
		convErr := convertErr(t, err)
		assert.Equal(t, KindTool, convErr.Kind)
	case <-time.After(10 * time.Second):
		t.Fatal("conversion did not stop after Cleanup")
	}
	assert.Zero(t, trans.ActiveCount())
}

func TestCheckAvailable(t *testing.T) {
	trans := New(Config{FFmpegPath: testutil.FakeFFmpeg(t, testutil.Succeed)})
	require.NoError(t, trans.CheckAvailable(context.Background()))

	version, err := trans.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ffmpeg version 6.1-fake Copyright (c) the FFmpeg developers", version)

	missing := New(Config{FFmpegPath: filepath.Join(t.TempDir(), "missing")})
	assert.Error(t, missing.CheckAvailable(context.Background()))
}

// TestConvertWithRealFFmpeg runs an actual conversion when FFmpeg is installed.
func TestConvertWithRealFFmpeg(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found, skipping integration test")
	}

	dir := t.TempDir()
	in := createTestVideo(t, dir)
	out := filepath.Join(dir, "converted.mp4")

	trans := New(Config{Timeout: time.Minute, VerifyOutput: true})
	require.NoError(t, trans.Convert(context.Background(), in, out, mediatypes.FormatMP4, "very low"))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

// createTestVideo creates a simple test video file using ffmpeg
func createTestVideo(t *testing.T, dir string) string {
	t.Helper()

	videoPath := filepath.Join(dir, "test_source.mkv")

	cmd := exec.CommandContext(context.Background(), "ffmpeg",
		"-f", "lavfi",
		"-i", "testsrc=duration=1:size=320x240:rate=5",
		"-f", "matroska",
		"-y",
		videoPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Skipf("Failed to create test video: %v\nOutput: %s", err, output)
	}

	return videoPath
}
