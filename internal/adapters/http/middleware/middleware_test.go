package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, http.NoBody)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
	}{
		{name: "generated"},
		{name: "propagated", incoming: "req-123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ginID, ctxID string

			engine := gin.New()
			engine.Use(RequestID())
			engine.GET("/", func(c *gin.Context) {
				ginID = GetRequestID(c)
				ctxID = RequestIDFromContext(c.Request.Context())
			})

			headers := map[string]string{}
			if tt.incoming != "" {
				headers[HeaderRequestID] = tt.incoming
			}

			w := serve(engine, http.MethodGet, "/", headers)

			assert.Equal(t, ginID, ctxID)
			assert.Equal(t, ginID, w.Header().Get(HeaderRequestID))

			if tt.incoming != "" {
				assert.Equal(t, tt.incoming, ginID)
			} else {
				_, err := uuid.Parse(ginID)
				assert.NoError(t, err)
			}
		})
	}
}

func TestCorrelationID_EnrichesLogger(t *testing.T) {
	logger, buf := bufferLogger()

	engine := gin.New()
	engine.Use(ContextLogger(logger), CorrelationID())
	engine.GET("/", func(c *gin.Context) {
		assert.Equal(t, "corr-9", CorrelationIDFromContext(c.Request.Context()))
		assert.Equal(t, "corr-9", GetCorrelationID(c))
		logging.FromContext(c.Request.Context()).Info("handled")
	})

	w := serve(engine, http.MethodGet, "/", map[string]string{HeaderCorrelationID: "corr-9"})

	assert.Equal(t, "corr-9", w.Header().Get(HeaderCorrelationID))
	assert.Contains(t, buf.String(), `"correlation_id":"corr-9"`)
}

func TestContextFromNil(t *testing.T) {
	//nolint:staticcheck // nil context is part of the contract
	assert.Empty(t, RequestIDFromContext(nil))
	assert.Empty(t, CorrelationIDFromContext(context.Background()))
}

func TestLogging(t *testing.T) {
	logger, buf := bufferLogger()

	engine := gin.New()
	engine.Use(ContextLogger(logger), RequestID(), Logging("/skip"))
	engine.GET("/quotes/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	engine.GET("/skip", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/-/live", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, http.MethodGet, "/-/live", nil)
	serve(engine, http.MethodGet, "/skip", nil)
	assert.Empty(t, buf.String())

	serve(engine, http.MethodGet, "/quotes/7?x=1", map[string]string{HeaderRequestID: "r-1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "request completed", entry["msg"])
	assert.Equal(t, "/quotes/:id", entry["route"])
	assert.Equal(t, "x=1", entry["query"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.InDelta(t, 404, entry["status"], 0)
}

func TestRecovery(t *testing.T) {
	logger, buf := bufferLogger()

	engine := gin.New()
	engine.Use(Recovery(logger))
	engine.GET("/boom", func(*gin.Context) { panic("nil map") })

	w := serve(engine, http.MethodGet, "/boom", map[string]string{"X-Request-ID": "trace-me"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeInternal, resp.Error.Code)
	assert.Equal(t, "trace-me", resp.TraceID)
	assert.NotContains(t, w.Body.String(), "nil map")
	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "nil map")
}

func TestTimeout(t *testing.T) {
	engine := gin.New()
	engine.Use(Timeout(10 * time.Millisecond))
	engine.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	engine.GET("/fast", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(engine, http.MethodGet, "/slow", nil)
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrorCodeTimeout)

	w = serve(engine, http.MethodGet, "/fast", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestExtractClaims(t *testing.T) {
	engine := gin.New()

	var claims *Claims

	engine.GET("/", func(c *gin.Context) {
		claims = ExtractClaims(c, &config.AuthConfig{SubjectHeader: "X-Sub"})
	})

	serve(engine, http.MethodGet, "/", map[string]string{
		"X-Sub":        " alice ",
		"X-User-Roles": "viewer, editor ,,",
	})

	require.NotNil(t, claims)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, []string{"viewer", "editor"}, claims.Roles)
	assert.True(t, claims.HasAnyRole("admin", "editor"))
	assert.False(t, claims.HasRole("admin"))
}

func TestRequireAuth(t *testing.T) {
	tests := []struct {
		name       string
		cfg        *config.AuthConfig
		headers    map[string]string
		wantStatus int
	}{
		{
			name:       "no subject",
			cfg:        &config.AuthConfig{Enabled: true},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "subject only",
			cfg:        &config.AuthConfig{Enabled: true},
			headers:    map[string]string{"X-User-ID": "alice"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing editor role",
			cfg:        &config.AuthConfig{Enabled: true, EditorRole: "editor"},
			headers:    map[string]string{"X-User-ID": "alice", "X-User-Roles": "viewer"},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "editor role",
			cfg:        &config.AuthConfig{Enabled: true, EditorRole: "editor"},
			headers:    map[string]string{"X-User-ID": "alice", "X-User-Roles": "viewer,editor"},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(RequireAuth(tt.cfg))
			engine.POST("/quotes", func(c *gin.Context) {
				assert.Equal(t, "alice", GetClaims(c).Subject)
				c.Status(http.StatusOK)
			})

			w := serve(engine, http.MethodPost, "/quotes", tt.headers)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	engine := gin.New()
	engine.Use(RequireRole(nil, "admin", "editor"))
	engine.DELETE("/quotes/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := serve(engine, http.MethodDelete, "/quotes/1", map[string]string{"X-User-Roles": "viewer"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "admin, editor")

	w = serve(engine, http.MethodDelete, "/quotes/1", map[string]string{"X-User-Roles": "editor"})
	assert.Equal(t, http.StatusNoContent, w.Code)
}
