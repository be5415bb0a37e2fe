package startup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"video-converter/internal/archive"
	"video-converter/internal/logging"
	"video-converter/internal/workers"
)

// maxDefaultWorkers caps the CPU-derived per-batch parallelism. FFmpeg is
// itself multi-threaded, so more concurrent processes rarely help.
const maxDefaultWorkers = 4

// Config holds all application configuration
type Config struct {
	Port           string
	MetricsPort    string
	MetricsEnabled bool

	// Standalone workspace
	UploadDir    string
	ConvertedDir string
	// Hosted workspace root; empty means the OS temp directory
	TempDir string

	FFmpegPath     string
	Workers        int
	ConvertTimeout time.Duration
	VerifyOutput   bool

	MaxFileSize     int64
	MaxRequestSize  int64
	MultipartMemory int64
	// DownloadIdleTimeout cuts off a client that stops reading the archive
	DownloadIdleTimeout time.Duration

	ArchiveMode        archive.Mode
	ArchiveMemoryLimit int64

	StaleFileTTL  time.Duration
	SweepInterval time.Duration

	AllowedOrigins []string

	LogLevel        string
	LogFormat       string
	Debug           bool
	LogHealthChecks bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("METRICS_PORT", "9090")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("UPLOAD_DIR", filepath.Join("static", "uploads"))
	v.SetDefault("CONVERTED_DIR", filepath.Join("static", "converted"))
	v.SetDefault("TEMP_DIR", "")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("CONVERT_WORKERS", 0)
	v.SetDefault("CONVERT_TIMEOUT", "30m")
	v.SetDefault("VERIFY_OUTPUT", true)
	v.SetDefault("MAX_FILE_SIZE", "500mb")
	v.SetDefault("MAX_REQUEST_SIZE", "16gb")
	v.SetDefault("MULTIPART_MEMORY", "32mb")
	v.SetDefault("DOWNLOAD_IDLE_TIMEOUT", "60s")
	v.SetDefault("ARCHIVE_SPOOL", string(archive.ModeMemory))
	v.SetDefault("ARCHIVE_MEMORY_LIMIT", "256mb")
	v.SetDefault("STALE_FILE_TTL", "1h")
	v.SetDefault("SWEEP_INTERVAL", "10m")
	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_HEALTH_CHECKS", true)
}

// LoadConfig loads and validates configuration from environment variables.
// A .env file in the working directory, if present, is loaded first and
// never overrides variables already set.
func LoadConfig() (*Config, error) {
	dotenvErr := godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := fromViper(v)
	if err != nil {
		// Logging still goes somewhere sensible so the error can be reported.
		logging.Configure(logging.Config{Level: v.GetString("LOG_LEVEL"), Format: v.GetString("LOG_FORMAT")})
		return nil, err
	}

	logging.Configure(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Debug: cfg.Debug})

	printBanner()
	logSystemInfo()

	if dotenvErr == nil {
		logging.Info("  Loaded environment from .env")
	} else if !errors.Is(dotenvErr, os.ErrNotExist) {
		logging.Warn("  Failed to read .env: %v", dotenvErr)
	}

	cfg.log()
	return cfg, nil
}

func fromViper(v *viper.Viper) (*Config, error) {
	mode, err := archive.ParseMode(strings.ToLower(strings.TrimSpace(v.GetString("ARCHIVE_SPOOL"))))
	if err != nil {
		return nil, fmt.Errorf("invalid ARCHIVE_SPOOL: %w", err)
	}

	cfg := &Config{
		Port:                v.GetString("PORT"),
		MetricsPort:         v.GetString("METRICS_PORT"),
		MetricsEnabled:      v.GetBool("METRICS_ENABLED"),
		UploadDir:           v.GetString("UPLOAD_DIR"),
		ConvertedDir:        v.GetString("CONVERTED_DIR"),
		TempDir:             v.GetString("TEMP_DIR"),
		FFmpegPath:          v.GetString("FFMPEG_PATH"),
		Workers:             workers.Resolve(v.GetInt("CONVERT_WORKERS"), maxDefaultWorkers),
		ConvertTimeout:      durationOr(v, "CONVERT_TIMEOUT", 30*time.Minute),
		VerifyOutput:        v.GetBool("VERIFY_OUTPUT"),
		MaxFileSize:         int64(v.GetSizeInBytes("MAX_FILE_SIZE")),
		MaxRequestSize:      int64(v.GetSizeInBytes("MAX_REQUEST_SIZE")),
		MultipartMemory:     int64(v.GetSizeInBytes("MULTIPART_MEMORY")),
		DownloadIdleTimeout: durationOr(v, "DOWNLOAD_IDLE_TIMEOUT", time.Minute),
		ArchiveMode:         mode,
		ArchiveMemoryLimit:  int64(v.GetSizeInBytes("ARCHIVE_MEMORY_LIMIT")),
		StaleFileTTL:        durationOr(v, "STALE_FILE_TTL", time.Hour),
		SweepInterval:       durationOr(v, "SWEEP_INTERVAL", 10*time.Minute),
		AllowedOrigins:      splitAndTrim(v.GetString("ALLOWED_ORIGINS")),
		LogLevel:            v.GetString("LOG_LEVEL"),
		LogFormat:           v.GetString("LOG_FORMAT"),
		Debug:               v.GetBool("DEBUG"),
		LogHealthChecks:     v.GetBool("LOG_HEALTH_CHECKS"),
	}

	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_FILE_SIZE %q", v.GetString("MAX_FILE_SIZE"))
	}
	if cfg.MaxRequestSize <= 0 {
		return nil, fmt.Errorf("invalid MAX_REQUEST_SIZE %q", v.GetString("MAX_REQUEST_SIZE"))
	}
	if cfg.StaleFileTTL > 0 && cfg.ConvertTimeout > 0 && cfg.StaleFileTTL <= cfg.ConvertTimeout {
		return nil, fmt.Errorf("STALE_FILE_TTL (%v) must be longer than CONVERT_TIMEOUT (%v)", cfg.StaleFileTTL, cfg.ConvertTimeout)
	}
	if cfg.MultipartMemory <= 0 {
		cfg.MultipartMemory = 32 << 20
	}
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	return cfg, nil
}

// durationOr parses key as a Go duration, falling back to def with a
// warning when the value is malformed. Zero and negative values are kept.
func durationOr(v *viper.Viper, key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		logging.Warn("  Invalid %s %q, using default: %v", key, raw, def)
		return def
	}
	return d
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) log() {
	section("CONFIGURATION")
	logging.Info("  PORT:                 %s", c.Port)
	logging.Info("  METRICS_PORT:         %s", c.MetricsPort)
	logging.Info("  METRICS_ENABLED:      %v", c.MetricsEnabled)
	logging.Info("  UPLOAD_DIR:           %s", c.UploadDir)
	logging.Info("  CONVERTED_DIR:        %s", c.ConvertedDir)
	logging.Info("  TEMP_DIR:             %s", orDefault(c.TempDir, os.TempDir()))
	logging.Info("  FFMPEG_PATH:          %s", c.FFmpegPath)
	logging.Info("  CONVERT_WORKERS:      %d", c.Workers)
	logging.Info("  CONVERT_TIMEOUT:      %v", c.ConvertTimeout)
	logging.Info("  VERIFY_OUTPUT:        %v", c.VerifyOutput)
	logging.Info("  MAX_FILE_SIZE:        %s", formatBytes(c.MaxFileSize))
	logging.Info("  MAX_REQUEST_SIZE:     %s", formatBytes(c.MaxRequestSize))
	logging.Info("  MULTIPART_MEMORY:     %s", formatBytes(c.MultipartMemory))
	logging.Info("  DOWNLOAD_IDLE_TIMEOUT: %v", c.DownloadIdleTimeout)
	logging.Info("  ARCHIVE_SPOOL:        %s", c.ArchiveMode)
	if c.ArchiveMode == archive.ModeAuto {
		logging.Info("  ARCHIVE_MEMORY_LIMIT: %s", formatBytes(c.ArchiveMemoryLimit))
	}
	logging.Info("  STALE_FILE_TTL:       %v", c.StaleFileTTL)
	logging.Info("  SWEEP_INTERVAL:       %v", c.SweepInterval)
	logging.Info("  ALLOWED_ORIGINS:      %s", orDefault(strings.Join(c.AllowedOrigins, ","), "*"))
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())
	logging.Info("  LOG_HEALTH_CHECKS:    %v", c.LogHealthChecks)
}

// SetupStandaloneDirs resolves and creates the upload and converted
// directories and checks that both are writable.
func (c *Config) SetupStandaloneDirs() error {
	section("DIRECTORY SETUP")

	for _, d := range []struct {
		path *string
		name string
	}{
		{&c.UploadDir, "upload"},
		{&c.ConvertedDir, "converted"},
	} {
		abs, err := filepath.Abs(*d.path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s directory path: %w", d.name, err)
		}
		*d.path = abs
		logging.Info("  %s directory (absolute): %s", strings.ToUpper(d.name[:1])+d.name[1:], abs)

		if err := ensureDirectory(abs, d.name); err != nil {
			return fmt.Errorf("%s directory error: %w", d.name, err)
		}
		if err := CheckWritable(abs); err != nil {
			return fmt.Errorf("%s directory is not writable: %w", d.name, err)
		}
		logging.Info("  [OK] %s directory is writable", d.name)
	}
	return nil
}

// SetupTempDir checks the hosted workspace root. An unset TempDir uses
// the OS temp directory as is.
func (c *Config) SetupTempDir() error {
	section("DIRECTORY SETUP")

	root := orDefault(c.TempDir, os.TempDir())
	if c.TempDir != "" {
		abs, err := filepath.Abs(c.TempDir)
		if err != nil {
			return fmt.Errorf("failed to resolve temp directory path: %w", err)
		}
		c.TempDir, root = abs, abs
		if err := ensureDirectory(abs, "temp"); err != nil {
			return fmt.Errorf("temp directory error: %w", err)
		}
	}
	if err := CheckWritable(root); err != nil {
		return fmt.Errorf("temp directory is not writable: %w", err)
	}
	logging.Info("  [OK] Temp directory %s is writable", root)
	return nil
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")
	return nil
}

// CheckWritable creates and removes a probe file in dir.
func CheckWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
