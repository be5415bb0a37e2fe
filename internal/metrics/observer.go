package metrics

import "video-converter/internal/filesystem"

// workspaceObserver records workspace file operations issued through the
// filesystem package.
type workspaceObserver struct{}

// NewFilesystemObserver returns the filesystem.Observer backed by this
// package's Filesystem* series.
func NewFilesystemObserver() filesystem.Observer {
	return workspaceObserver{}
}

// volumeLabel keeps series bounded to the pre-populated volumes.
func volumeLabel(volume string) string {
	switch volume {
	case "uploads", "converted", "temp":
		return volume
	default:
		return "unknown"
	}
}

func (workspaceObserver) ObserveOperation(volume, operation string, durationSeconds float64, err error) {
	volume = volumeLabel(volume)
	FilesystemOperationDuration.WithLabelValues(volume, operation).Observe(durationSeconds)
	if err != nil {
		FilesystemOperationErrors.WithLabelValues(volume, operation).Inc()
	}
}

func (workspaceObserver) ObserveRetryAttempt(op, volume string) {
	FilesystemRetryAttempts.WithLabelValues(op, volumeLabel(volume)).Inc()
}

func (workspaceObserver) ObserveRetrySuccess(op, volume string) {
	FilesystemRetrySuccess.WithLabelValues(op, volumeLabel(volume)).Inc()
}

func (workspaceObserver) ObserveRetryFailure(op, volume string) {
	FilesystemRetryFailures.WithLabelValues(op, volumeLabel(volume)).Inc()
}

func (workspaceObserver) ObserveRetryDuration(op, volume string, durationSeconds float64) {
	FilesystemRetryDuration.WithLabelValues(op, volumeLabel(volume)).Observe(durationSeconds)
}

func (workspaceObserver) ObserveStaleError(op, volume string) {
	FilesystemStaleErrors.WithLabelValues(op, volumeLabel(volume)).Inc()
}
