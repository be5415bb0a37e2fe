// Package testutil provides helpers shared by package tests, chiefly a
// scripted stand-in for the FFmpeg binary.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// scriptHeader parses the argument list the transcoder passes and exposes
// $in, $out and $fmt to the body. "-version" is answered directly.
const scriptHeader = `#!/bin/sh
if [ "$1" = "-version" ]; then
  echo "ffmpeg version 6.1-fake Copyright (c) the FFmpeg developers"
  exit 0
fi
in=""; out=""; fmt=""; prev=""
for a in "$@"; do
  case "$prev" in
    -i) in="$a" ;;
    -f) fmt="$a" ;;
  esac
  prev="$a"
  out="$a"
done
`

// writeContainer emits the magic bytes of the requested container so that
// content sniffing accepts the output.
const writeContainer = `
case "$fmt" in
  webm) printf '\032\105\337\243\001\102\202\204webm' > "$out" ;;
  mp4)  printf '\000\000\000\030ftypisom\000\000\002\000isomiso2' > "$out" ;;
  mov)  printf '\000\000\000\024ftypqt  \000\000\002\000qt  ' > "$out" ;;
  avi)  printf 'RIFF\000\000\000\000AVI LIST' > "$out" ;;
  *)    printf 'unknown' > "$out" ;;
esac
cat "$in" >> "$out"
`

// Succeed converts every input into a well-formed container header
// followed by the input bytes.
const Succeed = writeContainer + "exit 0\n"

// ByContent decides per input: a file whose content starts with "fail"
// makes the tool exit 1 with a diagnostic, "hang" blocks until killed,
// "empty" produces a zero-length output and anything else succeeds.
const ByContent = `
case "$(head -c 5 "$in")" in
  fail*) echo "Invalid data found when processing input" >&2; exit 1 ;;
  hang*) exec sleep 30 ;;
  empty*) : > "$out"; exit 0 ;;
esac
` + writeContainer + "exit 0\n"

// FakeFFmpeg writes an executable script with the given body into a
// temporary directory and returns its path. It skips the test on Windows.
func FakeFFmpeg(t testing.TB, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg requires a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte(scriptHeader+body), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

// WriteFile creates a file with content under dir and returns its path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
