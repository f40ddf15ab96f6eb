package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/quote-manager/internal/adapters/clients"
	"github.com/jsamuelsen/quote-manager/internal/adapters/clients/acl"
	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/adapters/seed"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/platform/config"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
	"github.com/jsamuelsen/quote-manager/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

// loadConfig loads and validates the profile. Invalid configuration fails
// fast, before anything is started.
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.LoadFrom(opts.configDir, opts.profile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func loggingConfig(cfg *config.Config) *logging.Config {
	return &logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}
}

// components is the object graph shared by the front ends.
type components struct {
	store    *memory.QuoteStore
	events   *memory.Broadcaster
	service  *app.QuoteService
	manager  *app.QuoteManager
	importer *app.Importer
	health   *ports.DefaultHealthRegistry
}

// build wires the store, the application layer and, when services.quote is
// enabled, the upstream importer. reg receives the quote metrics; nil
// disables them.
func build(cfg *config.Config, reg prometheus.Registerer, logger *slog.Logger) (*components, error) {
	quotes, err := seed.Load(cfg.Quotes.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("loading seed: %w", err)
	}

	store := memory.NewQuoteStore(memory.StoreConfig{
		IDStrategy: memory.IDStrategy(cfg.Quotes.IDStrategy),
		Seed:       quotes,
	})
	events := memory.NewBroadcaster()

	health := ports.NewHealthRegistry()
	if err := health.Register(store); err != nil {
		return nil, fmt.Errorf("registering store health check: %w", err)
	}

	svcCfg := app.QuoteServiceConfig{
		Repository:      store,
		Publisher:       events,
		MissingID:       app.MissingIDPolicy(cfg.Quotes.MissingID),
		SearchMaxLength: cfg.Quotes.SearchMaxLength,
		Logger:          logger,
	}
	if reg != nil {
		svcCfg.Metrics = telemetry.NewQuoteMetrics(reg)
	}

	service := app.NewQuoteService(svcCfg)

	manager := app.NewQuoteManager(app.QuoteManagerConfig{
		Service:            service,
		Publisher:          events,
		ResetDraftOnCancel: cfg.Quotes.ResetDraftOnCancel,
		Logger:             logger,
	})

	c := &components{
		store:   store,
		events:  events,
		service: service,
		manager: manager,
		health:  health,
	}

	if !cfg.Services.Quote.Enabled {
		return c, nil
	}

	source, err := newQuoteSource(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := health.Register(source); err != nil {
		return nil, fmt.Errorf("registering quote source health check: %w", err)
	}

	c.importer = app.NewImporter(app.ImporterConfig{
		Source:      source,
		Service:     service,
		Concurrency: cfg.Quotes.Import.Workers,
		MaxCount:    cfg.Quotes.Import.MaxCount,
		Logger:      logger,
	})

	return c, nil
}

// newQuoteSource builds the upstream client (ACL pattern).
func newQuoteSource(cfg *config.Config, logger *slog.Logger) (*acl.QuoteClient, error) {
	upstream := cfg.Services.Quote

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     upstream.BaseURL,
		ServiceName: upstream.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:      httpClient,
		ServiceName: upstream.Name,
		Logger:      logger,
	}), nil
}

// startTelemetry initializes OpenTelemetry and returns its shutdown func.
func startTelemetry(ctx context.Context, cfg *config.Config, logger *slog.Logger) (func(), error) {
	provider, err := telemetry.New(ctx, cfg.Telemetry, cfg.App)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	return func() {
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}, nil
}
