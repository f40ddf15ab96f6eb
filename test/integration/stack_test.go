//go:build integration

package integration

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-manager/internal/adapters/clients"
	"github.com/jsamuelsen/quote-manager/internal/adapters/clients/acl"
	apphttp "github.com/jsamuelsen/quote-manager/internal/adapters/http"
	"github.com/jsamuelsen/quote-manager/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stackOptions selects the parts of the stack under test.
type stackOptions struct {
	idStrategy memory.IDStrategy
	missingID  app.MissingIDPolicy
	auth       config.AuthConfig

	// upstreamURL enables the importer against a quotable-compatible API.
	upstreamURL string
}

// stack is the full application behind a real HTTP listener.
type stack struct {
	server   *httptest.Server
	store    *memory.QuoteStore
	events   *memory.Broadcaster
	service  *app.QuoteService
	manager  *app.QuoteManager
	registry *prometheus.Registry
}

func (s *stack) Close() {
	s.server.Close()
}

func (s *stack) URL() string {
	return s.server.URL
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// upstreamClientConfig keeps retries and the circuit breaker fast enough for tests.
func upstreamClientConfig(baseURL string) *clients.Config {
	return &clients.Config{
		BaseURL:     baseURL,
		ServiceName: "quote-service",
		Timeout:     2 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 5 * time.Millisecond,
			MaxInterval:     20 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   3,
			Timeout:       200 * time.Millisecond,
			HalfOpenLimit: 1,
		},
		Logger: discardLogger(),
	}
}

func newStack(opts stackOptions) (*stack, error) {
	logger := discardLogger()
	registry := prometheus.NewRegistry()

	store := memory.NewQuoteStore(memory.StoreConfig{IDStrategy: opts.idStrategy, Seed: domain.SeedQuotes()})
	events := memory.NewBroadcaster()

	health := ports.NewHealthRegistry()
	if err := health.Register(store); err != nil {
		return nil, err
	}

	service := app.NewQuoteService(app.QuoteServiceConfig{
		Repository:      store,
		Publisher:       events,
		Metrics:         telemetry.NewQuoteMetrics(registry),
		MissingID:       opts.missingID,
		SearchMaxLength: config.DefaultSearchMaxLength,
		Logger:          logger,
	})
	manager := app.NewQuoteManager(app.QuoteManagerConfig{Service: service, Publisher: events, Logger: logger})

	var importer *app.Importer

	if opts.upstreamURL != "" {
		client, err := clients.New(upstreamClientConfig(opts.upstreamURL))
		if err != nil {
			return nil, err
		}

		source := acl.NewQuoteClient(acl.QuoteClientConfig{Client: client, Logger: logger})
		if err := health.Register(source); err != nil {
			return nil, err
		}

		importer = app.NewImporter(app.ImporterConfig{
			Source:      source,
			Service:     service,
			Concurrency: 2,
			MaxCount:    10,
			Logger:      logger,
		})
	}

	engine := gin.New()
	apphttp.SetupRouter(engine, apphttp.RouterConfig{
		Logger:      logger,
		ServiceName: "quote-manager-it",
		Auth:        opts.auth,
		Health:      handlers.NewHealthHandler(health, handlers.NewBuildInfo("it", "none", "now"), registry),
		Quotes:      handlers.NewQuoteHandler(service, importer),
		Form:        handlers.NewFormHandler(manager),
		Timeout:     5 * time.Second,
	})

	return &stack{
		server:   httptest.NewServer(engine),
		store:    store,
		events:   events,
		service:  service,
		manager:  manager,
		registry: registry,
	}, nil
}
