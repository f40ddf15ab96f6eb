// Package app contains application services that orchestrate use cases.
// This is the application layer - it coordinates domain logic and
// infrastructure through ports.
//
// What does NOT belong here:
//   - HTTP or terminal specifics (that's adapters)
//   - Storage details (that's the memory adapter)
//   - Core domain logic (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
	"github.com/jsamuelsen/quote-manager/internal/platform/telemetry"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

// MissingIDPolicy controls how Edit and Delete treat an id that is not in
// the collection.
type MissingIDPolicy string

const (
	// MissingIDIgnore turns a missing id into a silent no-op.
	MissingIDIgnore MissingIDPolicy = "ignore"

	// MissingIDReport returns domain.ErrNotFound to the caller.
	MissingIDReport MissingIDPolicy = "report"
)

// QuoteService orchestrates quote use cases on top of a repository.
// It depends on port interfaces, not concrete implementations.
type QuoteService struct {
	repo            ports.QuoteRepository
	publisher       ports.EventPublisher
	metrics         ports.QuoteMetrics
	missingID       MissingIDPolicy
	searchMaxLength int
	logger          *slog.Logger
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	// Repository is required.
	Repository ports.QuoteRepository

	// Publisher receives quote.added, quote.updated and quote.deleted events.
	Publisher ports.EventPublisher

	Metrics ports.QuoteMetrics

	// MissingID defaults to MissingIDIgnore.
	MissingID MissingIDPolicy

	// SearchMaxLength limits search terms in runes. Zero means unlimited.
	SearchMaxLength int

	Logger *slog.Logger
}

// NewQuoteService creates a new quote service. It panics without a repository.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Repository == nil {
		panic("app: QuoteService requires a Repository")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	missing := cfg.MissingID
	if missing == "" {
		missing = MissingIDIgnore
	}

	metrics := cfg.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}

	return &QuoteService{
		repo:            cfg.Repository,
		publisher:       cfg.Publisher,
		metrics:         metrics,
		missingID:       missing,
		searchMaxLength: cfg.SearchMaxLength,
		logger:          logger.With(slog.String("component", "app.QuoteService")),
	}
}

// MissingIDPolicy returns the configured policy.
func (s *QuoteService) MissingIDPolicy() MissingIDPolicy {
	return s.missingID
}

// List returns the quotes matching search in collection order.
func (s *QuoteService) List(ctx context.Context, search string) ([]domain.Quote, error) {
	if err := s.ValidateSearch(search); err != nil {
		return nil, err
	}

	quotes, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing quotes: %w", err)
	}

	visible := domain.Filter(quotes, search)

	s.log(ctx).DebugContext(ctx, "listed quotes",
		slog.String("search", search),
		slog.Int("total", len(quotes)),
		slog.Int("visible", len(visible)),
	)

	return visible, nil
}

// ValidateSearch checks the search term against the configured length limit.
func (s *QuoteService) ValidateSearch(search string) error {
	if s.searchMaxLength > 0 && utf8.RuneCountInString(search) > s.searchMaxLength {
		return domain.NewValidationError("search",
			fmt.Sprintf("must be at most %d characters", s.searchMaxLength))
	}

	return nil
}

// Get returns a single quote. A missing id is always reported.
func (s *QuoteService) Get(ctx context.Context, id int) (domain.Quote, error) {
	quote, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Quote{}, fmt.Errorf("getting quote: %w", err)
	}

	return quote, nil
}

// Add commits a draft and returns the stored quote with its assigned id.
func (s *QuoteService) Add(ctx context.Context, draft domain.Draft) (domain.Quote, error) {
	quote, err := s.repo.Add(ctx, draft)
	if err != nil {
		s.metrics.RecordOperation("add", telemetry.ResultError)
		return domain.Quote{}, fmt.Errorf("adding quote: %w", err)
	}

	s.metrics.RecordOperation("add", telemetry.ResultOK)
	s.log(ctx).InfoContext(ctx, "quote added",
		slog.Int("quote_id", quote.ID),
		slog.String("author", quote.Author),
		slog.String("category", quote.Category.String()),
	)
	s.changed(ctx, domain.Event{Kind: domain.EventQuoteAdded, Quote: quote})

	return quote, nil
}

// Edit replaces the quote with quote.ID, keeping its position.
// It reports whether a quote was replaced; under MissingIDIgnore a missing
// id yields (false, nil).
func (s *QuoteService) Edit(ctx context.Context, quote domain.Quote) (bool, error) {
	err := s.repo.Update(ctx, quote)
	if err != nil {
		return false, s.missing(ctx, "edit", quote.ID, fmt.Errorf("editing quote: %w", err))
	}

	s.metrics.RecordOperation("edit", telemetry.ResultOK)
	s.log(ctx).InfoContext(ctx, "quote updated", slog.Int("quote_id", quote.ID))
	s.changed(ctx, domain.Event{Kind: domain.EventQuoteUpdated, Quote: quote})

	return true, nil
}

// Delete removes the quote with id. There is no confirmation step.
// It reports whether a quote was removed; under MissingIDIgnore a missing
// id yields (false, nil).
func (s *QuoteService) Delete(ctx context.Context, id int) (bool, error) {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		return false, s.missing(ctx, "delete", id, fmt.Errorf("deleting quote: %w", err))
	}

	s.metrics.RecordOperation("delete", telemetry.ResultOK)
	s.log(ctx).InfoContext(ctx, "quote deleted", slog.Int("quote_id", id))
	s.changed(ctx, domain.Event{Kind: domain.EventQuoteDeleted, Quote: domain.Quote{ID: id}})

	return true, nil
}

// missing applies the missing-id policy to an Update or Delete failure.
func (s *QuoteService) missing(ctx context.Context, op string, id int, err error) error {
	if !domain.IsNotFound(err) {
		s.metrics.RecordOperation(op, telemetry.ResultError)
		return err
	}

	if s.missingID == MissingIDReport {
		s.metrics.RecordOperation(op, telemetry.ResultNotFound)
		return err
	}

	s.metrics.RecordOperation(op, telemetry.ResultIgnored)
	s.log(ctx).DebugContext(ctx, "ignoring missing quote",
		slog.String("operation", op),
		slog.Int("quote_id", id),
	)

	return nil
}

// changed refreshes the stored gauge and notifies observers.
func (s *QuoteService) changed(ctx context.Context, event domain.Event) {
	if quotes, err := s.repo.List(ctx); err == nil {
		s.metrics.SetStored(len(quotes))
	}

	if s.publisher == nil {
		return
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log(ctx).WarnContext(ctx, "failed to publish event",
			slog.String("event", event.EventType()),
			slog.Any("error", err),
		)
	}
}

func (s *QuoteService) log(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger
	}

	return s.logger
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(string, string) {}
func (noopMetrics) SetStored(int)                  {}
