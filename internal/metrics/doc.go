// Package metrics provides Prometheus instrumentation for the video-converter application.
//
// All metrics are prefixed with "video_converter_" and registered with the
// default registry through promauto.
//
// # Metric Categories
//
// ## HTTP Metrics
//   - HTTPRequestsTotal: Counter of total requests by method, path, and status
//   - HTTPRequestDuration: Histogram of request duration by method and path
//   - HTTPRequestsInFlight: Gauge of currently processing requests
//
// ## Batch Metrics
//   - BatchesTotal: Counter of batches by outcome (success/no_success/failed/rejected)
//   - BatchDuration: Histogram of time spent converting one batch
//   - BatchFiles: Histogram of uploads per batch
//   - UploadBytesTotal: Counter of upload bytes written to temp storage
//
// ## Conversion Metrics
//   - ConversionsTotal: Counter by target format and status
//   - ConversionErrorsTotal: Counter by failure kind (tool/adapter/timeout/internal)
//   - ConversionDuration: Histogram of FFmpeg run time by format
//   - ConversionsInProgress: Gauge of running conversions
//   - FFmpegProcessesActive: Gauge of tracked FFmpeg processes
//
// ## Archive Metrics
//   - ArchiveSizeBytes, ArchiveEntriesTotal, ArchiveSpoolTotal
//
// ## Temporary Storage Metrics
//   - TempFilesRemovedTotal / TempCleanupErrors by reason (cleanup/sweep)
//   - TempFilesCurrent / TempBytesCurrent sampled by the Collector
//   - SweeperRunsTotal / SweeperLastRunTimestamp
//
// ## Memory Metrics
//   - MemoryUsageRatio: Heap allocation as a fraction of the memory limit
//   - MemoryPaused / MemoryPausesTotal: Conversions held back by the memory gate
//
// ## Filesystem Metrics
//
// Recorded through the [filesystem.Observer] returned by NewFilesystemObserver:
// operation duration and errors per volume, plus ESTALE retry counters.
//
// # Usage
//
// Mount promhttp.Handler() on the metrics endpoint and call InitializeMetrics
// once at startup so labeled series exist before the first scrape.
//
// # Prometheus Queries
//
// Conversion failure rate by kind:
//
//	sum(rate(video_converter_conversion_errors_total[5m])) by (kind)
//
// P95 conversion time:
//
//	histogram_quantile(0.95, sum(rate(video_converter_conversion_duration_seconds_bucket[5m])) by (le, format))
//
// Batches where nothing converted:
//
//	rate(video_converter_batches_total{status="no_success"}[1h])
package metrics
