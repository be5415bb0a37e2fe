package metrics

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetAppInfo(t *testing.T) {
	SetAppInfo("1.2.3", "abc123", "go1.25")
	assert.Equal(t, float64(1), testutil.ToFloat64(AppInfo.WithLabelValues("1.2.3", "abc123", "go1.25")))
}

func TestInitializeMetricsPopulatesLabels(t *testing.T) {
	InitializeMetrics()

	assert.Equal(t, 4, testutil.CollectAndCount(BatchesTotal))
	assert.Equal(t, 12, testutil.CollectAndCount(ConversionsTotal))
	assert.Equal(t, 4, testutil.CollectAndCount(ConversionErrorsTotal))
	assert.Equal(t, 2, testutil.CollectAndCount(ArchiveSpoolTotal))
	assert.Equal(t, 16, testutil.CollectAndCount(FilesystemOperationErrors))
}

func TestFilesystemObserver(t *testing.T) {
	obs := NewFilesystemObserver()

	before := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("temp", "remove"))
	obs.ObserveOperation("temp", "remove", 0.01, errors.New("boom"))
	obs.ObserveOperation("temp", "remove", 0.01, nil)
	assert.Equal(t, before+1, testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("temp", "remove")))

	staleBefore := testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open", "uploads"))
	obs.ObserveStaleError("open", "uploads")
	assert.Equal(t, staleBefore+1, testutil.ToFloat64(FilesystemStaleErrors.WithLabelValues("open", "uploads")))

	attemptsBefore := testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "uploads"))
	obs.ObserveRetryAttempt("open", "uploads")
	obs.ObserveRetrySuccess("open", "uploads")
	obs.ObserveRetryFailure("open", "uploads")
	obs.ObserveRetryDuration("open", "uploads", 0.2)
	assert.Equal(t, attemptsBefore+1, testutil.ToFloat64(FilesystemRetryAttempts.WithLabelValues("open", "uploads")))

	unknownBefore := testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("unknown", "stat"))
	obs.ObserveOperation("/some/random/mount", "stat", 0.01, errors.New("boom"))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(FilesystemOperationErrors.WithLabelValues("unknown", "stat")))
}

func TestCollectorUpdatesGauges(t *testing.T) {
	provider := StatsFunc(func() Stats {
		return Stats{ActiveProcesses: 3, TempFiles: 7, TempBytes: 4096}
	})

	c := NewCollector(provider, time.Hour)
	c.collect()

	assert.Equal(t, float64(3), testutil.ToFloat64(FFmpegProcessesActive))
	assert.Equal(t, float64(7), testutil.ToFloat64(TempFilesCurrent))
	assert.Equal(t, float64(4096), testutil.ToFloat64(TempBytesCurrent))
}

func TestCollectorRun(t *testing.T) {
	var calls atomic.Int32
	provider := StatsFunc(func() Stats {
		calls.Add(1)
		return Stats{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewCollector(provider, 10*time.Millisecond).Run(ctx) }()

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("collector did not stop")
	}
}

func TestNewCollectorDefaultsInterval(t *testing.T) {
	assert.Equal(t, time.Minute, NewCollector(nil, 0).interval)
}

func TestCollectorNilProvider(t *testing.T) {
	c := NewCollector(nil, time.Hour)
	assert.NotPanics(t, c.collect)
}
