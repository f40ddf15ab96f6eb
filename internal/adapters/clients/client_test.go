package clients

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quote-manager/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
)

func testConfig(baseURL string) *Config {
	return &Config{
		BaseURL:     baseURL,
		ServiceName: "quote-service",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     5 * time.Millisecond,
			Multiplier:      2,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
}

func newTestClient(t *testing.T, cfg *Config) *Client {
	t.Helper()

	c, err := New(cfg)
	require.NoError(t, err)

	return c
}

// countingServer answers with statuses in order, repeating the last one.
func countingServer(t *testing.T, statuses ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		n := int(hits.Add(1)) - 1
		w.WriteHeader(statuses[min(n, len(statuses)-1)])
	}))
	t.Cleanup(srv.Close)

	return srv, &hits
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config is required")

	_, err = New(&Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "service name is required")
}

func TestNew_TrimsBaseURL(t *testing.T) {
	c := newTestClient(t, testConfig("https://api.quotable.io/"))

	assert.Equal(t, "https://api.quotable.io/random", c.url("random"))
	assert.Equal(t, "https://api.quotable.io/random", c.url("/random"))
}

func TestClient_PropagatesIDs(t *testing.T) {
	var gotRequest, gotCorrelation string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequest = r.Header.Get(middleware.HeaderRequestID)
		gotCorrelation = r.Header.Get(middleware.HeaderCorrelationID)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx := middleware.ContextWithRequestID(context.Background(), "req-1")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-1")

	resp, err := newTestClient(t, testConfig(srv.URL)).Get(ctx, "/random")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, "req-1", gotRequest)
	assert.Equal(t, "corr-1", gotCorrelation)
}

func TestClient_Retries(t *testing.T) {
	tests := []struct {
		name       string
		statuses   []int
		wantStatus int
		wantHits   int32
		wantErr    error
	}{
		{name: "recovers after server errors", statuses: []int{500, 502, 200}, wantStatus: 200, wantHits: 3},
		{name: "client errors are not retried", statuses: []int{404}, wantStatus: 404, wantHits: 1},
		{name: "gives up after max attempts", statuses: []int{503}, wantHits: 3, wantErr: ErrMaxRetriesExceeded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := countingServer(t, tt.statuses...)

			resp, err := newTestClient(t, testConfig(srv.URL)).Get(context.Background(), "/random")

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, resp.StatusCode)
				_ = resp.Body.Close()
			}

			assert.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestClient_CircuitOpensAfterFailures(t *testing.T) {
	srv, hits := countingServer(t, http.StatusInternalServerError)

	cfg := testConfig(srv.URL)
	cfg.Retry.MaxAttempts = 1
	cfg.Circuit.MaxFailures = 2
	c := newTestClient(t, cfg)

	for range 2 {
		_, err := c.Get(context.Background(), "/random")
		require.Error(t, err)
	}

	assert.Equal(t, StateOpen, c.CircuitState())

	_, err := c.Get(context.Background(), "/random")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(2), hits.Load())
}

func TestClient_ContextCanceled(t *testing.T) {
	srv, _ := countingServer(t, http.StatusOK)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, testConfig(srv.URL)).Get(ctx, "/random")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_AuthFuncRunsOnEveryAttempt(t *testing.T) {
	srv, _ := countingServer(t, 500, 200)

	var calls atomic.Int32

	cfg := testConfig(srv.URL)
	cfg.AuthFunc = func(r *http.Request) {
		calls.Add(1)
		r.Header.Set("Authorization", "Bearer token")
	}

	resp, err := newTestClient(t, cfg).Get(context.Background(), "/random")
	require.NoError(t, err)
	_ = resp.Body.Close()

	assert.Equal(t, int32(2), calls.Load())
}

func TestBackoff_StaysWithinBounds(t *testing.T) {
	cfg := testConfig("http://localhost")
	cfg.Retry.InitialInterval = 100 * time.Millisecond
	cfg.Retry.MaxInterval = time.Second
	cfg.Retry.JitterFactor = 0.25
	c := newTestClient(t, cfg)

	for attempt := 1; attempt <= 6; attempt++ {
		d := c.backoff(attempt)

		assert.GreaterOrEqual(t, d, 150*time.Millisecond, "attempt %d", attempt)
		assert.LessOrEqual(t, d, 1250*time.Millisecond, "attempt %d", attempt)
	}
}

type fakeNetError struct{ timeout bool }

func (e fakeNetError) Error() string   { return "fake net error" }
func (e fakeNetError) Timeout() bool   { return e.timeout }
func (e fakeNetError) Temporary() bool { return false }

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "canceled", err: context.Canceled, want: false},
		{name: "deadline", err: context.DeadlineExceeded, want: false},
		{name: "timeout", err: fakeNetError{timeout: true}, want: true},
		{name: "non-timeout net error", err: fakeNetError{}, want: false},
		{name: "op error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: true},
		{name: "plain", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}
