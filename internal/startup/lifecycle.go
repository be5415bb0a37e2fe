package startup

import (
	"context"
	"strings"
	"time"

	"video-converter/internal/logging"
	"video-converter/internal/transcoder"
)

// FFmpegProbe is what LogTranscoderInit needs from the transcoder.
type FFmpegProbe interface {
	FFmpegPath() string
	Version(ctx context.Context) (string, error)
}

// LogTranscoderInit checks that FFmpeg can be executed and logs its version.
// A missing binary is reported but not fatal: readiness probes keep the
// instance out of rotation until it appears.
func LogTranscoderInit(probe FFmpegProbe, workers int, timeout time.Duration) bool {
	section("TRANSCODER INITIALIZATION")
	logging.Info("  FFmpeg binary:   %s", probe.FFmpegPath())
	logging.Info("  Batch workers:   %d", workers)
	if timeout > 0 {
		logging.Info("  Per-file limit:  %v", timeout)
	} else {
		logging.Info("  Per-file limit:  none")
	}
	logging.Info("  Quality tiers:   %s (default %s)", strings.Join(transcoder.Qualities(), ", "), transcoder.DefaultQuality)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	version, err := probe.Version(ctx)
	if err != nil {
		logging.Warn("  FFmpeg check failed: %v", err)
		logging.Warn("  Conversions will fail until FFmpeg is installed")
		return false
	}
	logging.Info("  [OK] %s", version)
	return true
}

// LogSweeperInit logs the stale temp file sweeper settings.
func LogSweeperInit(ttl, interval time.Duration) {
	section("TEMP FILE SWEEPER")
	if ttl <= 0 || interval <= 0 {
		logging.Info("  Sweeper disabled")
		return
	}
	logging.Info("  Removing temp files older than %v every %v", ttl, interval)
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful server start with all endpoint information
func LogServerStarted(config ServerConfig) {
	section("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	logging.Info("  Endpoints:")
	logging.Info("    Convert:       POST http://0.0.0.0:%s/api/convert", config.Port)
	logging.Info("    Health:        http://0.0.0.0:%s/healthz", config.Port)
	if config.MetricsEnabled {
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
	} else {
		logging.Info("    Metrics:       DISABLED")
	}
	logging.Info("")
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(reason string) {
	section("SHUTDOWN INITIATED (%s)", reason)
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}
