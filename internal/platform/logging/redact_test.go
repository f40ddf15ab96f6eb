package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/m-mizutani/masq"
	"github.com/stretchr/testify/assert"
)

func redactingJSON(buf *bytes.Buffer, opts ...masq.Option) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{ReplaceAttr: NewReplaceAttr(opts...)}))
}

func TestNewReplaceAttr(t *testing.T) {
	tests := []struct {
		field  string
		value  string
		redact bool
	}{
		{field: "password", value: "secret123", redact: true},
		{field: "token", value: "my-token", redact: true},
		{field: "api_key", value: "key-value", redact: true},
		{field: "accessToken", value: "access-value", redact: true},
		{field: "secretKey", value: "secret-key-data", redact: true},
		{field: "secret_config", value: "prefixed-data", redact: true},
		{field: "auth", value: "Bearer abc123xyz456", redact: true},
		{field: "header", value: "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxIn0.sig", redact: true},
		{field: "author", value: "John Lennon", redact: false},
		{field: "search", value: "lennon", redact: false},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			var buf bytes.Buffer

			redactingJSON(&buf).Info("test", slog.String(tt.field, tt.value))

			assert.Contains(t, buf.String(), tt.field)
			if tt.redact {
				assert.NotContains(t, buf.String(), tt.value)
			} else {
				assert.Contains(t, buf.String(), tt.value)
			}
		})
	}
}

func TestNewReplaceAttr_ExtraOptions(t *testing.T) {
	var buf bytes.Buffer

	redactingJSON(&buf, masq.WithFieldName("upstream_key")).Info("test", slog.String("upstream_key", "abc"))

	assert.NotContains(t, buf.String(), "abc")
}

func TestRedactingHandler(t *testing.T) {
	var buf bytes.Buffer

	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil))).
		With(slog.String("session", "sess-1")).
		WithGroup("request")

	logger.Info("call", slog.String("password", "pw"), slog.String("path", "/quotes"))

	out := buf.String()
	assert.NotContains(t, out, "sess-1")
	assert.NotContains(t, out, `"pw"`)
	assert.Contains(t, out, "/quotes")
	assert.Contains(t, out, `"request":{`)
}
