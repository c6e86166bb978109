// Package logging provides structured logging for lanwatch on top of log/slog.
// Loggers can write text or JSON to stdout, stderr or a file, and carry
// helpers for the scan, registry and refresh subsystems.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const (
	logDirPerm  = 0750
	logFilePerm = 0600
)

// LogLevel represents the available log levels.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// LogFormat represents the available log formats.
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Config holds logging configuration.
type Config struct {
	Level     LogLevel  `yaml:"level" json:"level" mapstructure:"level"`
	Format    LogFormat `yaml:"format" json:"format" mapstructure:"format"`
	Output    string    `yaml:"output" json:"output" mapstructure:"output"`
	AddSource bool      `yaml:"add_source" json:"add_source" mapstructure:"add_source"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Format: FormatText,
		Output: "stderr",
	}
}

// Logger wraps slog.Logger with lanwatch-specific helpers.
type Logger struct {
	*slog.Logger
	config Config
	closer io.Closer
}

// ParseLevel maps a level name to a slog level. Unknown names map to info.
func ParseLevel(level LogLevel) slog.Level {
	switch strings.ToLower(string(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New creates a logger from cfg.
func New(cfg Config) (*Logger, error) {
	var (
		writer io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "", "stderr":
		writer = os.Stderr
	case "stdout":
		writer = os.Stdout
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.Output), logDirPerm); err != nil {
			return nil, err
		}
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePerm)
		if err != nil {
			return nil, err
		}
		writer, closer = file, file
	}

	return &Logger{
		Logger: slog.New(newHandler(writer, cfg)),
		config: cfg,
		closer: closer,
	}, nil
}

// NewWithWriter creates a logger that writes to w. Output in cfg is ignored.
func NewWithWriter(w io.Writer, cfg Config) *Logger {
	return &Logger{Logger: slog.New(newHandler(w, cfg)), config: cfg}
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}
	if cfg.Format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// NewDefault creates a logger with the default configuration.
func NewDefault() *Logger {
	logger, _ := New(DefaultConfig())
	return logger
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, DefaultConfig())
}

// Config returns the configuration the logger was built with.
func (l *Logger) Config() Config {
	return l.config
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// WithFields adds structured fields to the logger.
func (l *Logger) WithFields(fields ...any) *Logger {
	return &Logger{
		Logger: l.With(fields...),
		config: l.config,
		closer: l.closer,
	}
}

// WithComponent adds a component field to the logger.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// WithScanID adds a scan ID field to the logger.
func (l *Logger) WithScanID(scanID string) *Logger {
	return l.WithFields("scan_id", scanID)
}

// WithTarget adds a target field to the logger.
func (l *Logger) WithTarget(target string) *Logger {
	return l.WithFields("target", target)
}

// WithError adds an error field to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err)
}

// InfoScan logs scan-related information about a single address.
func (l *Logger) InfoScan(msg, target string, fields ...any) {
	l.Info(msg, append([]any{"target", target}, fields...)...)
}

// DebugScan logs per-host details that are too noisy for info.
func (l *Logger) DebugScan(msg, target string, fields ...any) {
	l.Debug(msg, append([]any{"target", target}, fields...)...)
}

// ErrorScan logs scan-related errors.
func (l *Logger) ErrorScan(msg, target string, err error, fields ...any) {
	l.Error(msg, append([]any{"target", target, "error", err}, fields...)...)
}

// InfoRegistry logs device registry events.
func (l *Logger) InfoRegistry(msg string, fields ...any) {
	l.Info(msg, append([]any{"component", "registry"}, fields...)...)
}

// ErrorRegistry logs device registry failures, typically persistence.
func (l *Logger) ErrorRegistry(msg string, err error, fields ...any) {
	l.Error(msg, append([]any{"component", "registry", "error", err}, fields...)...)
}

// InfoRefresh logs background refresh activity.
func (l *Logger) InfoRefresh(msg string, fields ...any) {
	l.Info(msg, append([]any{"component", "refresh"}, fields...)...)
}

// Global logger instance - can be replaced for testing.
var defaultLogger = NewDefault()

// SetDefault sets the default logger instance and makes it slog's default.
func SetDefault(logger *Logger) {
	defaultLogger = logger
	slog.SetDefault(logger.Logger)
}

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// Debug logs at debug level using the default logger.
func Debug(msg string, fields ...any) {
	defaultLogger.Debug(msg, fields...)
}

// Info logs at info level using the default logger.
func Info(msg string, fields ...any) {
	defaultLogger.Info(msg, fields...)
}

// Warn logs at warn level using the default logger.
func Warn(msg string, fields ...any) {
	defaultLogger.Warn(msg, fields...)
}

// Error logs at error level using the default logger.
func Error(msg string, fields ...any) {
	defaultLogger.Error(msg, fields...)
}
