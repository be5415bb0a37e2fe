// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// [LoadConfig] reads environment variables through viper, after loading an
// optional .env file with godotenv. Sizes accept kb, mb and gb suffixes
// (1024-based); durations use Go syntax.
//
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - METRICS_ENABLED: Enable or disable the metrics server (default: true)
//   - UPLOAD_DIR, CONVERTED_DIR: Standalone temp directories (default: static/uploads, static/converted)
//   - TEMP_DIR: Root for per-request directories in hosted mode (default: OS temp dir)
//   - FFMPEG_PATH: FFmpeg binary (default: ffmpeg on PATH)
//   - CONVERT_WORKERS: Files converted in parallel per batch (default: CPU count, at most 4)
//   - CONVERT_TIMEOUT: Per-file time limit, 0 disables (default: 30m)
//   - VERIFY_OUTPUT: Sniff outputs for the requested container (default: true)
//   - MAX_FILE_SIZE: Per-file upload limit (default: 500mb)
//   - MAX_REQUEST_SIZE: Whole request body limit (default: 16gb)
//   - MULTIPART_MEMORY: Multipart bytes kept in memory before spilling to disk (default: 32mb)
//   - DOWNLOAD_IDLE_TIMEOUT: Cut off a client that stops reading the archive, 0 disables (default: 60s)
//   - ARCHIVE_SPOOL: memory, disk or auto (default: memory)
//   - ARCHIVE_MEMORY_LIMIT: auto mode threshold (default: 256mb)
//   - STALE_FILE_TTL, SWEEP_INTERVAL: Sweeper age and period, 0 disables (default: 1h, 10m)
//     STALE_FILE_TTL must exceed CONVERT_TIMEOUT when both are set
//   - ALLOWED_ORIGINS: Comma-separated CORS origins (default: any)
//   - LOG_LEVEL, LOG_FORMAT, DEBUG: Logging (default: info, console, false)
//   - LOG_HEALTH_CHECKS: Log health check requests (default: true)
//
// MEMORY_LIMIT and MEMORY_RATIO are read separately by package memory.
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo].
//
// # Lifecycle Logging
//
// [LogTranscoderInit], [LogSweeperInit], [LogHTTPRoutes], [LogServerStarted]
// and the LogShutdown* helpers print the sectioned startup and shutdown log.
package startup
