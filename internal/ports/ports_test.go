package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	name string
	err  error
	wait time.Duration
}

func (s stubChecker) Name() string { return s.name }

func (s stubChecker) Check(ctx context.Context) error {
	if s.wait == 0 {
		return s.err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.wait):
		return s.err
	}
}

func TestHealthRegistry_Register(t *testing.T) {
	r := NewHealthRegistry()

	require.NoError(t, r.Register(stubChecker{name: "quote-store"}))
	require.NoError(t, r.Register(stubChecker{name: "quote-service"}))

	err := r.Register(stubChecker{name: "quote-store"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "quote-store")
	assert.Equal(t, 2, r.Len())
}

func TestHealthRegistry_CheckAll(t *testing.T) {
	tests := []struct {
		name     string
		checkers []HealthChecker
		want     HealthStatus
		failing  map[string]string
	}{
		{
			name: "empty registry is healthy",
			want: HealthStatusHealthy,
		},
		{
			name: "store and upstream healthy",
			checkers: []HealthChecker{
				stubChecker{name: "quote-store"},
				stubChecker{name: "quote-service"},
			},
			want: HealthStatusHealthy,
		},
		{
			name: "upstream down",
			checkers: []HealthChecker{
				stubChecker{name: "quote-store"},
				stubChecker{name: "quote-service", err: errors.New(`service "quote-service" unavailable: circuit open`)},
			},
			want:    HealthStatusUnhealthy,
			failing: map[string]string{"quote-service": `service "quote-service" unavailable: circuit open`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, r.Register(c))
			}

			result := r.CheckAll(context.Background())

			assert.Equal(t, tt.want, result.Status)
			assert.Len(t, result.Checks, len(tt.checkers))
			assert.WithinDuration(t, time.Now(), result.Timestamp, time.Second)

			for name, check := range result.Checks {
				msg, bad := tt.failing[name]
				if bad {
					assert.Equal(t, HealthStatusUnhealthy, check.Status)
					assert.Equal(t, msg, check.Message)
				} else {
					assert.Equal(t, HealthStatusHealthy, check.Status)
					assert.Empty(t, check.Message)
				}
			}
		})
	}
}

func TestHealthRegistry_ChecksRunConcurrently(t *testing.T) {
	r := NewHealthRegistry()
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, r.Register(stubChecker{name: name, wait: 50 * time.Millisecond}))
	}

	start := time.Now()
	result := r.CheckAll(context.Background())

	assert.Equal(t, HealthStatusHealthy, result.Status)
	assert.Less(t, time.Since(start), 180*time.Millisecond)
}

func TestHealthRegistry_CancelledContext(t *testing.T) {
	r := NewHealthRegistry()
	require.NoError(t, r.Register(stubChecker{name: "slow-upstream", wait: time.Second}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := r.CheckAll(ctx)

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["slow-upstream"].Message, "context canceled")
}
