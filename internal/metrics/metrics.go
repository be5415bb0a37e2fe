package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_converter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60, 300, 900, 1800},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Batch metrics
var (
	BatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_batches_total",
			Help: "Total number of conversion batches by outcome",
		},
		[]string{"status"}, // "success", "no_success", "failed", "rejected"
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_converter_batch_duration_seconds",
			Help:    "Time to process one conversion batch, excluding the response transfer",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
		},
	)

	BatchFiles = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_converter_batch_files",
			Help:    "Number of uploads per conversion batch",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)

	UploadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_converter_upload_bytes_total",
			Help: "Total bytes of uploaded video written to temporary storage",
		},
	)
)

// Conversion metrics
var (
	ConversionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_conversions_total",
			Help: "Total number of per-file conversions by target format and status",
		},
		[]string{"format", "status"}, // status: "success", "error", "invalid"
	)

	ConversionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_conversion_errors_total",
			Help: "Total number of failed conversions by failure kind",
		},
		[]string{"kind"}, // "tool", "adapter", "timeout", "internal"
	)

	ConversionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_converter_conversion_duration_seconds",
			Help:    "FFmpeg conversion duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"format"},
	)

	ConversionsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_conversions_in_progress",
			Help: "Number of per-file conversions currently running",
		},
	)

	FFmpegProcessesActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_ffmpeg_processes_active",
			Help: "Number of tracked FFmpeg processes, sampled periodically",
		},
	)
)

// Archive metrics
var (
	ArchiveSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_converter_archive_size_bytes",
			Help:    "Size of finalized result archives in bytes",
			Buckets: prometheus.ExponentialBuckets(1<<20, 4, 10), // 1MiB .. 256GiB
		},
	)

	ArchiveEntriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_converter_archive_entries_total",
			Help: "Total number of entries written to result archives",
		},
	)

	ArchiveSpoolTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_archive_spool_total",
			Help: "Finalized archives by where they were held",
		},
		[]string{"storage"}, // "memory", "disk"
	)
)

// Temporary storage metrics
var (
	TempFilesRemovedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_temp_files_removed_total",
			Help: "Total number of temporary files removed",
		},
		[]string{"reason"}, // "cleanup", "sweep"
	)

	TempCleanupErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_temp_cleanup_errors_total",
			Help: "Total number of temporary files that could not be removed",
		},
		[]string{"reason"},
	)

	TempFilesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_temp_files",
			Help: "Number of files currently held in temporary storage, sampled periodically",
		},
	)

	TempBytesCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_temp_bytes",
			Help: "Bytes currently held in temporary storage, sampled periodically",
		},
	)

	SweeperRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_converter_sweeper_runs_total",
			Help: "Total number of stale temporary file sweeps",
		},
	)

	SweeperLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_sweeper_last_run_timestamp",
			Help: "Timestamp of the last stale temporary file sweep",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_converter_filesystem_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_filesystem_retry_attempts_total",
			Help: "Total number of filesystem retries after a stale file handle",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after exhausting retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_converter_filesystem_retry_duration_seconds",
			Help:    "Total time spent in a filesystem operation including retries",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_converter_filesystem_stale_errors_total",
			Help: "Total number of NFS stale file handle errors observed",
		},
		[]string{"operation", "volume"},
	)
)

// Memory pressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_memory_usage_ratio",
			Help: "Go heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_converter_memory_paused",
			Help: "Whether new conversions are held back by memory pressure (1 = paused)",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_converter_memory_pauses_total",
			Help: "Times conversions were paused because the heap crossed the critical mark",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "video_converter_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
