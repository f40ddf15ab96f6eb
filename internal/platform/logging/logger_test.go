package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(format string) *Config {
	return &Config{Level: "debug", Format: format, Service: "quote-manager", Version: "1.2.3"}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(testConfig("json")))
}

func TestNewWithWriter_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "json", want: []string{`"msg":"quote saved"`, `"service_name":"quote-manager"`, `"service_version":"1.2.3"`}},
		{format: "text", want: []string{"msg=\"quote saved\"", "service_name=quote-manager"}},
		{format: "pretty", want: []string{"quote saved", "quote-manager"}},
		{format: "", want: []string{`"msg":"quote saved"`}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer

			NewWithWriter(testConfig(tt.format), &buf).Debug("quote saved", slog.Int("id", 3))

			for _, want := range tt.want {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestNewWithWriter_PrettyRedacts(t *testing.T) {
	var buf bytes.Buffer

	NewWithWriter(testConfig("pretty"), &buf).Info("login", slog.String("password", "hunter2"))

	assert.Contains(t, buf.String(), "login")
	assert.NotContains(t, buf.String(), "hunter2")
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer

	cfg := testConfig("json")
	cfg.Level = "warn"
	logger := NewWithWriter(cfg, &buf)

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewWithWriter_TraceLevel(t *testing.T) {
	var buf bytes.Buffer

	cfg := testConfig("json")
	cfg.Level = "trace"

	NewWithWriter(cfg, &buf).Log(context.Background(), LevelTrace, "wire detail")

	assert.Contains(t, buf.String(), "wire detail")
}

func TestNewWithWriter_AlsoWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quotes.log")

	cfg := testConfig("json")
	cfg.File = FileConfig{Enabled: true, Path: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1}

	var buf bytes.Buffer
	NewWithWriter(cfg, &buf).Info("to both sinks")

	assert.Contains(t, buf.String(), "to both sinks")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "to both sinks")
}

func TestNewFileOnly(t *testing.T) {
	_, _, err := NewFileOnly(testConfig("pretty"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "tui.log")
	cfg := testConfig("pretty")
	cfg.File.Path = path

	logger, closer, err := NewFileOnly(cfg)
	require.NoError(t, err)

	logger.Info("from the tui")
	require.NoError(t, closer.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"from the tui"`)
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestSlogToCharmLevel(t *testing.T) {
	tests := []struct {
		in   slog.Level
		want log.Level
	}{
		{in: slog.Level(-12), want: log.DebugLevel},
		{in: LevelTrace, want: log.DebugLevel},
		{in: slog.LevelDebug, want: log.DebugLevel},
		{in: slog.LevelInfo, want: log.InfoLevel},
		{in: slog.LevelWarn, want: log.WarnLevel},
		{in: slog.LevelError, want: log.ErrorLevel},
		{in: slog.Level(12), want: log.ErrorLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slogToCharmLevel(tt.in), "level %v", tt.in)
	}
}

func TestMultiHandler(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer

	multi := NewMultiHandler(
		slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, multi.Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, multi.Enabled(context.Background(), slog.Level(-10)))

	logger := slog.New(multi).With(slog.String("component", "store")).WithGroup("quote")
	logger.Debug("only debug sink", slog.Int("id", 1))
	logger.Warn("both sinks", slog.Int("id", 2))

	assert.Contains(t, debugBuf.String(), "only debug sink")
	assert.Contains(t, debugBuf.String(), `"quote":{"id":1}`)
	assert.NotContains(t, warnBuf.String(), "only debug sink")
	assert.Contains(t, warnBuf.String(), "both sinks")
	assert.Contains(t, warnBuf.String(), `"component":"store"`)
}
