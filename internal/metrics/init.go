package metrics

import "video-converter/internal/mediatypes"

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, status := range []string{"success", "no_success", "failed", "rejected"} {
		BatchesTotal.WithLabelValues(status)
	}

	for format := range mediatypes.OutputFormats {
		f := string(format)
		ConversionDuration.WithLabelValues(f)
		for _, status := range []string{"success", "error", "invalid"} {
			ConversionsTotal.WithLabelValues(f, status)
		}
	}

	for _, kind := range []string{"tool", "adapter", "timeout", "internal"} {
		ConversionErrorsTotal.WithLabelValues(kind)
	}

	for _, storage := range []string{"memory", "disk"} {
		ArchiveSpoolTotal.WithLabelValues(storage)
	}

	for _, reason := range []string{"cleanup", "sweep"} {
		TempFilesRemovedTotal.WithLabelValues(reason)
		TempCleanupErrors.WithLabelValues(reason)
	}

	// --- Filesystem operation metrics (per volume × operation) ---
	volumes := []string{"uploads", "converted", "temp", "unknown"}
	fsOps := []string{"stat", "open", "create", "remove"}

	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}
}
