// Package logging provides a simple leveled logging interface for the
// video converter application, backed by zap.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages
//   - WARN: Warning conditions
//   - ERROR: Error conditions
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable and
// the encoding via LOG_FORMAT (console or json). Entry points call Configure
// once the full configuration has been loaded; until then the logger is
// built from the environment on first use.
//
// Request-scoped lines attach structured fields with With:
//
//	log := logging.With("request_id", id)
//	log.Info("converted %s", name)
package logging
