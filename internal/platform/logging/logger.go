// Package logging builds the slog loggers used across quote-manager.
package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LevelTrace is below debug. It is used for per-request wire detail.
const LevelTrace = slog.Level(-8)

// Config configures New.
type Config struct {
	Level   string // trace, debug, info, warn, error
	Format  string // json, text, pretty
	Service string
	Version string
	File    FileConfig
}

// FileConfig configures a rolling log file written in JSON alongside the
// console output.
type FileConfig struct {
	Enabled    bool
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a logger writing to stdout and, when enabled, the log file.
func New(cfg *Config) *slog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

// NewWithWriter is New with the console output sent to w.
// Every handler redacts secrets with masq.
func NewWithWriter(cfg *Config, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)

	var handler slog.Handler = consoleHandler(cfg.Format, w, level)
	if cfg.File.Enabled && cfg.File.Path != "" {
		handler = NewMultiHandler(handler, fileHandler(rollingFile(cfg.File), level))
	}

	return withServiceAttrs(slog.New(handler), cfg)
}

// NewFileOnly returns a logger that writes only to the rolling log file.
// Interactive front ends use it so log lines never reach the terminal.
// The returned closer releases the file.
func NewFileOnly(cfg *Config) (*slog.Logger, io.Closer, error) {
	if cfg.File.Path == "" {
		return nil, nil, errors.New("log file path is required")
	}

	file := rollingFile(cfg.File)
	logger := slog.New(fileHandler(file, parseLevel(cfg.Level)))

	return withServiceAttrs(logger, cfg), file, nil
}

func consoleHandler(format string, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: NewReplaceAttr()}

	switch strings.ToLower(format) {
	case "text":
		return slog.NewTextHandler(w, opts)
	case "pretty":
		pretty := log.NewWithOptions(w, log.Options{
			Level:           slogToCharmLevel(level),
			ReportTimestamp: true,
			TimeFormat:      time.Kitchen,
		})

		return NewRedactingHandler(pretty)
	default:
		return slog.NewJSONHandler(w, opts)
	}
}

func fileHandler(w io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: NewReplaceAttr()})
}

func rollingFile(cfg FileConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

func withServiceAttrs(logger *slog.Logger, cfg *Config) *slog.Logger {
	return logger.With(
		slog.String("service_name", cfg.Service),
		slog.String("service_version", cfg.Version),
	)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace
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

// slogToCharmLevel maps slog levels onto the four charm levels. Trace has no
// charm equivalent and is shown as debug.
func slogToCharmLevel(level slog.Level) log.Level {
	switch {
	case level < slog.LevelInfo:
		return log.DebugLevel
	case level < slog.LevelWarn:
		return log.InfoLevel
	case level < slog.LevelError:
		return log.WarnLevel
	default:
		return log.ErrorLevel
	}
}
