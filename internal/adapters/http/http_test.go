package http

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-manager/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func serverConfig(maxBody int64) *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxRequestSize:  maxBody,
	}
}

func routerConfig(t *testing.T, auth config.AuthConfig) RouterConfig {
	t.Helper()

	logger := discardLogger()
	store := memory.NewQuoteStore(memory.StoreConfig{Seed: domain.SeedQuotes()})
	svc := app.NewQuoteService(app.QuoteServiceConfig{Repository: store, Logger: logger})
	manager := app.NewQuoteManager(app.QuoteManagerConfig{Service: svc, Logger: logger})

	registry := ports.NewHealthRegistry()
	require.NoError(t, registry.Register(store))

	return RouterConfig{
		Logger:      logger,
		ServiceName: "quote-manager-test",
		Auth:        auth,
		Health:      handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "none", ""), prometheus.NewRegistry()),
		Quotes:      handlers.NewQuoteHandler(svc, nil),
		Form:        handlers.NewFormHandler(manager),
		Timeout:     time.Second,
	}
}

func request(srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var r io.Reader = http.NoBody
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)

	return w
}

func TestServer_Routes(t *testing.T) {
	srv := New(serverConfig(1<<20), routerConfig(t, config.AuthConfig{}), discardLogger())

	tests := []struct {
		method     string
		path       string
		body       string
		wantStatus int
	}{
		{http.MethodGet, "/-/live", "", http.StatusOK},
		{http.MethodGet, "/-/ready", "", http.StatusOK},
		{http.MethodGet, "/-/build", "", http.StatusOK},
		{http.MethodGet, "/-/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/v1/quotes", "", http.StatusOK},
		{http.MethodGet, "/api/v1/categories", "", http.StatusOK},
		{http.MethodGet, "/api/v1/form", "", http.StatusOK},
		{http.MethodPost, "/api/v1/quotes", `{"text":"Hi","author":"Me"}`, http.StatusCreated},
		{http.MethodPost, "/api/v1/quotes/import?count=1", "", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := request(srv, tt.method, tt.path, tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestServer_EchoesIDs(t *testing.T) {
	srv := New(serverConfig(1<<20), routerConfig(t, config.AuthConfig{}), discardLogger())

	w := request(srv, http.MethodGet, "/api/v1/quotes", "", map[string]string{
		middleware.HeaderCorrelationID: "corr-1",
	})

	assert.Equal(t, "corr-1", w.Header().Get(middleware.HeaderCorrelationID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestServer_AuthGuardsWrites(t *testing.T) {
	auth := config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID", RolesHeader: "X-User-Roles", EditorRole: "editor"}
	srv := New(serverConfig(1<<20), routerConfig(t, auth), discardLogger())

	assert.Equal(t, http.StatusOK, request(srv, http.MethodGet, "/api/v1/quotes", "", nil).Code)
	assert.Equal(t, http.StatusOK, request(srv, http.MethodGet, "/-/ready", "", nil).Code)

	body := `{"text":"Hi","author":"Me"}`

	assert.Equal(t, http.StatusUnauthorized, request(srv, http.MethodPost, "/api/v1/quotes", body, nil).Code)
	assert.Equal(t, http.StatusForbidden, request(srv, http.MethodPost, "/api/v1/quotes", body,
		map[string]string{"X-User-ID": "bob", "X-User-Roles": "viewer"}).Code)
	assert.Equal(t, http.StatusUnauthorized, request(srv, http.MethodPost, "/api/v1/form/add", "", nil).Code)
	assert.Equal(t, http.StatusCreated, request(srv, http.MethodPost, "/api/v1/quotes", body,
		map[string]string{"X-User-ID": "alice", "X-User-Roles": "editor"}).Code)
}

func TestServer_MaxBodySize(t *testing.T) {
	srv := New(serverConfig(64), routerConfig(t, config.AuthConfig{}), discardLogger())

	w := request(srv, http.MethodPost, "/api/v1/quotes",
		`{"text":"`+strings.Repeat("a", 200)+`","author":"Me"}`, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = request(srv, http.MethodPost, "/api/v1/quotes", `{"text":"ok","author":"Me"}`, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestServer_StartShutdown(t *testing.T) {
	srv := New(serverConfig(1<<20), routerConfig(t, config.AuthConfig{}), discardLogger())
	assert.Equal(t, "127.0.0.1:0", srv.Addr())

	errCh := srv.Start()

	addr := srv.Addr()
	require.NotEqual(t, "127.0.0.1:0", addr)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, "http://"+addr+"/-/live", http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open)
}

func TestServer_StartReportsBindFailure(t *testing.T) {
	first := New(serverConfig(1<<20), routerConfig(t, config.AuthConfig{}), discardLogger())
	firstErr := first.Start()

	t.Cleanup(func() {
		_ = first.Shutdown(context.Background())
		<-firstErr
	})

	host, port, err := net.SplitHostPort(first.Addr())
	require.NoError(t, err)

	cfg := serverConfig(1 << 20)
	cfg.Host = host
	cfg.Port, err = strconv.Atoi(port)
	require.NoError(t, err)

	err = <-New(cfg, routerConfig(t, config.AuthConfig{}), discardLogger()).Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listening on")
}
