// Package logging provides structured logging utilities for nodecap.
//
// # Overview
//
// This package wraps the standard library slog package with nodecap defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - JSON logging to stderr, or text when stderr is a terminal
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Skipped sources, failed probes
//   - ERROR: Failures that abort a capture
//
// # Usage
//
//	func main() {
//	    logging.SetDefaultStructuredLoggerWithLevel("nodecap", version, "info")
//	    slog.Info("collecting", "source", "log")
//	}
//
// The LOG_LEVEL environment variable is consulted when no level is given:
//
//	LOG_LEVEL=debug nodecap --dry-run
package logging
