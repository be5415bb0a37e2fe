// Command video-converter is the standalone batch video conversion server.
//
// Clients POST one or more videos to /api/convert together with a target
// format and quality. Each file is validated, saved under UPLOAD_DIR,
// converted with FFmpeg into CONVERTED_DIR and added to a zip archive that
// is returned as the response body. The X-Conversion-Results header lists
// the outcome of every file in upload order.
//
// # Lifecycle
//
//  1. Configuration: environment and optional .env (package startup)
//  2. Memory: GOMEMLIMIT from MEMORY_LIMIT (package memory)
//  3. Directories: upload and converted directories created and probed
//  4. Components: transcoder, validator, orchestrator, handlers (package server)
//  5. Serving: application and metrics listeners, stale file sweeper
//  6. Shutdown: SIGINT/SIGTERM stops the listeners, waits for in-flight
//     batches and kills any FFmpeg still running
//
// The hosted variant, which uses a private temp directory per request,
// is cmd/convert-function.
package main
