// Package logging provides structured logging for mmprobe.
//
// This package wraps a global zap logger with convenience functions for the
// events mmprobe cares about: outbound API requests, state machine
// transitions, and server event stream traffic.
//
// # Silent By Default
//
// Commands print their own results, and the TUI owns the terminal, so the
// logger is a no-op unless a level is requested:
//
//	MMPROBE_LOG_LEVEL=debug MMPROBE_LOG_FILE=/tmp/mmprobe.log mmprobe ping
//
// or via the --log-level and --log-file flags.
//
// # Log Levels
//
//   - Debug: request dispatch, every state transition, websocket events
//   - Info: settled requests, connections
//   - Warn: failed requests, request build failures
//   - Error: unrecoverable command failures
//
// # Structured Logging
//
//	logging.Info("Server discovered",
//	    zap.String("instance", "chat"),
//	    zap.String("url", "http://10.0.0.5:8065"),
//	)
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. Initialize and
// SetLogger are not, and should run before any component starts.
package logging
