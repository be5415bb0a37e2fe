package mediatypes

import (
	"strings"
)

// Format is a target output container.
type Format string

const (
	// FormatMP4 is the MPEG-4 Part 14 container.
	FormatMP4 Format = "mp4"
	// FormatAVI is the Audio Video Interleave container.
	FormatAVI Format = "avi"
	// FormatMOV is the QuickTime container.
	FormatMOV Format = "mov"
	// FormatWebM is the WebM (Matroska subset) container.
	FormatWebM Format = "webm"
)

// SourceExtensions maps upload extensions to whether they are accepted for conversion.
var SourceExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".mod":  true,
	".mpg":  true,
	".mpeg": true,
}

// OutputFormats maps target formats to whether they can be produced.
var OutputFormats = map[Format]bool{
	FormatMP4:  true,
	FormatAVI:  true,
	FormatMOV:  true,
	FormatWebM: true,
}

// muxers maps each output format to the ffmpeg muxer name passed with -f.
var muxers = map[Format]string{
	FormatMP4:  "mp4",
	FormatAVI:  "avi",
	FormatMOV:  "mov",
	FormatWebM: "webm",
}

// MimeTypes maps file extensions to their MIME types.
var MimeTypes = map[string]string{
	".mp4":  "video/mp4",
	".avi":  "video/x-msvideo",
	".mov":  "video/quicktime",
	".mkv":  "video/x-matroska",
	".webm": "video/webm",
	".mod":  "video/mpeg",
	".mpg":  "video/mpeg",
	".mpeg": "video/mpeg",
	".zip":  "application/zip",
}

// Ext returns the lowercase extension of filename including the leading dot,
// or "" when the name has none. Directory components are ignored.
func Ext(filename string) string {
	base := BaseName(filename)
	idx := strings.LastIndex(base, ".")
	if idx == -1 {
		return ""
	}
	return strings.ToLower(base[idx:])
}

// Stem returns filename without directory components and without its final extension.
func Stem(filename string) string {
	base := BaseName(filename)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

// BaseName strips any directory components from a client-supplied filename.
// Both slash and backslash are treated as separators since browsers on
// Windows may send either.
func BaseName(filename string) string {
	if idx := strings.LastIndexAny(filename, `/\`); idx != -1 {
		return filename[idx+1:]
	}
	return filename
}

// IsSourceFile returns true if filename carries an accepted source extension.
func IsSourceFile(filename string) bool {
	return SourceExtensions[Ext(filename)]
}

// ParseFormat normalizes s and reports whether it names a supported output format.
func ParseFormat(s string) (Format, bool) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	return f, OutputFormats[f]
}

// Extension returns the file extension for the format including the leading dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Muxer returns the ffmpeg muxer name for the format.
func (f Format) Muxer() string {
	if m, ok := muxers[f]; ok {
		return m
	}
	return string(f)
}

// MimeType returns the MIME type produced for the format.
func (f Format) MimeType() string {
	return GetMimeType(f.Extension())
}

// GetMimeType returns the MIME type for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".mp4").
// Returns "application/octet-stream" if the extension is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[ext]; ok {
		return mime
	}
	return "application/octet-stream"
}
