// Package transcoder converts video files between container formats using FFmpeg.
//
// It supports:
//   - One synchronous FFmpeg invocation per file with a quality tier mapped to a CRF value
//   - Per-file timeouts and cancellation through the caller's context
//   - Optional verification that the produced file sniffs as the requested container
//   - Killing in-flight processes on shutdown via Cleanup
//
// Failures are reported as *ConversionError values carrying a Kind so callers
// can tell tool failures (FFmpeg exited non-zero) from adapter failures
// (missing input, launch failure, bad output) and timeouts.
//
// Conversion requires FFmpeg to be installed. The binary defaults to "ffmpeg"
// on the system PATH and can be overridden with Config.FFmpegPath.
package transcoder
