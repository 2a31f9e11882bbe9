package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger *zap.Logger

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MMPROBE_LOG_LEVEL"

// LogFileEnvVar redirects log output to a file. The TUI owns the terminal, so
// interactive commands should log to a file rather than stderr.
const LogFileEnvVar = "MMPROBE_LOG_FILE"

// Initialize creates a new logger with the specified level and output path.
// If level is empty, it checks MMPROBE_LOG_LEVEL. If neither is set, logging
// is disabled (silent mode). An empty path falls back to MMPROBE_LOG_FILE and
// then to stderr.
func Initialize(level, path string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	zapLevel, err := ParseLevel(level)
	if err != nil {
		// Unknown level - use info as default when explicitly set to something
		zapLevel = zapcore.InfoLevel
	}

	if path == "" {
		path = os.Getenv(LogFileEnvVar)
	}
	if path == "" {
		path = "stderr"
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	if path == "stderr" {
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	built, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built

	return nil
}

// ParseLevel maps a level name to a zap level.
func ParseLevel(level string) (zapcore.Level, error) {
	switch level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger replaces the global logger. nil restores silent mode.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	if logger == nil {
		// Fallback to silent logger if not initialized
		logger = zap.NewNop()
	}
	return logger
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogRequest logs an outbound API request
func LogRequest(method, url string, hasBody bool) {
	Debug("API request",
		zap.String("method", method),
		zap.String("url", url),
		zap.Bool("has_body", hasBody),
	)
}

// LogResponse logs a settled API request
func LogResponse(method, url string, elapsed time.Duration) {
	Info("API request completed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("elapsed", elapsed),
	)
}

// LogRequestFailed logs an API request that settled with an error
func LogRequestFailed(method, url string, elapsed time.Duration, err error) {
	Warn("API request failed",
		zap.String("method", method),
		zap.String("url", url),
		zap.Duration("elapsed", elapsed),
		zap.Error(err),
	)
}

// LogTransition logs one state machine step
func LogTransition(component, intent string, wasInFlight, inFlight, render bool) {
	Debug("State transition",
		zap.String("component", component),
		zap.String("intent", intent),
		zap.Bool("was_in_flight", wasInFlight),
		zap.Bool("in_flight", inFlight),
		zap.Bool("render", render),
	)
}

// LogWebSocketEvent logs an event received from the server event stream
func LogWebSocketEvent(url, event string, seq int64, length int) {
	Debug("WebSocket event",
		zap.String("url", url),
		zap.String("event", event),
		zap.Int64("seq", seq),
		zap.Int("length", length),
	)
}

// LogConnection logs a connection event
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// Sync flushes any buffered log entries
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
