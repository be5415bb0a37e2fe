package workspace

import (
	"context"
	"os"
	"time"

	"video-converter/internal/filesystem"
	"video-converter/internal/logging"
	"video-converter/internal/metrics"
)

// Sweeper periodically removes temp entries older than a TTL. Per-file
// cleanup normally deletes everything a request creates; the sweeper only
// catches what a killed process left behind.
type Sweeper struct {
	provider Provider
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	retry    filesystem.RetryConfig
}

// NewSweeper creates a sweeper. A non-positive ttl or interval disables it.
func NewSweeper(provider Provider, ttl, interval time.Duration) *Sweeper {
	return &Sweeper{provider: provider, ttl: ttl, interval: interval, now: time.Now, retry: filesystem.DefaultRetryConfig()}
}

// Enabled reports whether Run will do anything.
func (s *Sweeper) Enabled() bool {
	return s.ttl > 0 && s.interval > 0
}

// Run sweeps once immediately and then every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	if !s.Enabled() {
		<-ctx.Done()
		return nil
	}

	s.SweepOnce()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.SweepOnce()
		case <-ctx.Done():
			return nil
		}
	}
}

// SweepOnce removes every entry whose modification time is older than the
// TTL and returns how many were removed.
func (s *Sweeper) SweepOnce() int {
	entries, err := s.provider.Entries()
	if err != nil {
		logging.Warn("Temp sweep failed: %v", err)
		return 0
	}

	cutoff := s.now().Add(-s.ttl)
	removed := 0

	for _, path := range entries {
		info, err := filesystem.StatWithRetry(path, s.retry)
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.RemoveAll(path); err != nil {
			logging.Warn("Failed to remove stale temp entry %s: %v", path, err)
			metrics.TempCleanupErrors.WithLabelValues("sweep").Inc()
			continue
		}
		removed++
		metrics.TempFilesRemovedTotal.WithLabelValues("sweep").Inc()
	}

	metrics.SweeperRunsTotal.Inc()
	metrics.SweeperLastRunTimestamp.Set(float64(s.now().Unix()))

	if removed > 0 {
		logging.Info("Removed %d stale temp entries older than %v", removed, s.ttl)
	}
	return removed
}
