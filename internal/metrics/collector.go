package metrics

import (
	"context"
	"time"

	"video-converter/internal/logging"
)

// Stats is a point-in-time sample of resources that have no natural
// event to count on.
type Stats struct {
	ActiveProcesses int
	TempFiles       int
	TempBytes       int64
}

// StatsProvider supplies samples to a Collector.
type StatsProvider interface {
	GetStats() Stats
}

// StatsFunc adapts a function to StatsProvider.
type StatsFunc func() Stats

// GetStats calls f.
func (f StatsFunc) GetStats() Stats {
	return f()
}

// Collector samples a StatsProvider into the resource gauges.
type Collector struct {
	provider StatsProvider
	interval time.Duration
}

// NewCollector creates a collector sampling every interval.
func NewCollector(provider StatsProvider, interval time.Duration) *Collector {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Collector{provider: provider, interval: interval}
}

// Run samples immediately and then every interval until ctx is done.
func (c *Collector) Run(ctx context.Context) error {
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-ctx.Done():
			return nil
		}
	}
}

func (c *Collector) collect() {
	if c.provider == nil {
		return
	}
	stats := c.provider.GetStats()

	FFmpegProcessesActive.Set(float64(stats.ActiveProcesses))
	TempFilesCurrent.Set(float64(stats.TempFiles))
	TempBytesCurrent.Set(float64(stats.TempBytes))

	logging.Debug("Metrics collected: ffmpeg=%d, temp_files=%d, temp_bytes=%d",
		stats.ActiveProcesses, stats.TempFiles, stats.TempBytes)
}
