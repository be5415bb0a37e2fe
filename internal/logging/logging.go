package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	// LevelDebug is the debug log level
	LevelDebug LogLevel = iota
	// LevelInfo is the info log level
	LevelInfo
	// LevelWarn is the warning log level
	LevelWarn
	// LevelError is the error log level
	LevelError
)

// Config controls how the package-level logger is built.
type Config struct {
	// Level is one of debug, info, warn or error. Unknown values fall back to info.
	Level string
	// Format is "console" or "json". Unknown values fall back to console.
	Format string
	// Debug forces the debug level regardless of Level.
	Debug bool
}

// Logger is a child logger carrying structured fields, returned by With.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	mu    sync.RWMutex
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar *zap.SugaredLogger
)

// current returns the package-level logger, building one from the
// environment on first use so code that logs before Configure still
// gets output.
func current() *zap.SugaredLogger {
	mu.RLock()
	s := sugar
	mu.RUnlock()
	if s != nil {
		return s
	}

	mu.Lock()
	defer mu.Unlock()
	if sugar == nil {
		sugar = build(configFromEnv(), zapcore.Lock(os.Stderr))
	}
	return sugar
}

func configFromEnv() Config {
	cfg := Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
	}
	switch strings.ToLower(os.Getenv("DEBUG")) {
	case "1", "true", "yes", "on":
		cfg.Debug = true
	}
	return cfg
}

// ParseLevel converts a level name to a LogLevel. Matching is case-insensitive
// and "warning" is accepted as an alias for warn.
func ParseLevel(s string) (LogLevel, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LevelDebug:
		return zapcore.DebugLevel
	case LevelWarn:
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func build(cfg Config, w zapcore.WriteSyncer) *zap.SugaredLogger {
	lvl, _ := ParseLevel(cfg.Level)
	if cfg.Debug {
		lvl = LevelDebug
	}
	level.SetLevel(lvl.zapLevel())

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(cfg.Format, "json") {
		enc = zapcore.NewJSONEncoder(encoderCfg)
	} else {
		encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encoderCfg)
	}

	core := zapcore.NewCore(enc, w, level)
	return zap.New(core).Sugar()
}

// Configure replaces the package-level logger. It is called once by the
// entry points after configuration has been loaded.
func Configure(cfg Config) {
	ConfigureWriter(cfg, zapcore.Lock(os.Stderr))
}

// ConfigureWriter is Configure with an explicit destination.
func ConfigureWriter(cfg Config, w zapcore.WriteSyncer) {
	s := build(cfg, w)
	mu.Lock()
	sugar = s
	mu.Unlock()
}

// SetLogger installs an already built zap logger, typically a
// zaptest/observer core in tests. The returned function restores the
// previous logger.
func SetLogger(l *zap.Logger) (restore func()) {
	mu.Lock()
	prev := sugar
	sugar = l.Sugar()
	mu.Unlock()
	return func() {
		mu.Lock()
		sugar = prev
		mu.Unlock()
	}
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = current().Sync()
}

// GetLevel returns the current log level
func GetLevel() LogLevel {
	current()
	switch level.Level() {
	case zapcore.DebugLevel:
		return LevelDebug
	case zapcore.WarnLevel:
		return LevelWarn
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return LevelError
	default:
		return LevelInfo
	}
}

// IsDebugEnabled returns true if debug logging is enabled
func IsDebugEnabled() bool {
	return GetLevel() <= LevelDebug
}

// Debug logs a debug message (only if DEBUG=true or LOG_LEVEL=debug)
func Debug(format string, args ...interface{}) {
	current().Debugf(format, args...)
}

// Info logs an info message
func Info(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// Warn logs a warning message
func Warn(format string, args ...interface{}) {
	current().Warnf(format, args...)
}

// Error logs an error message
func Error(format string, args ...interface{}) {
	current().Errorf(format, args...)
}

// Fatal logs an error message and exits
func Fatal(format string, args ...interface{}) {
	current().Fatalf(format, args...)
}

// Printf logs at info level. Startup banners use it.
func Printf(format string, args ...interface{}) {
	current().Infof(format, args...)
}

// With returns a child logger that attaches the given key/value pairs to
// every entry, e.g. logging.With("request_id", id).
func With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: current().With(keysAndValues...)}
}

// With adds more fields to an existing child logger.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{}) { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// String returns the string representation of a log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return fmt.Sprintf("unknown(%d)", l)
	}
}
