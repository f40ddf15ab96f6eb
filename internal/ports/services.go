// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// QuoteRepository owns the authoritative ordered quote collection.
//
// Example usage in application layer:
//
//	type QuoteService struct {
//	    repo ports.QuoteRepository
//	}
type QuoteRepository interface {
	// List returns a copy of the collection in insertion order.
	List(ctx context.Context) ([]domain.Quote, error)

	// Get retrieves a quote by its id.
	// Returns domain.ErrNotFound if the quote does not exist.
	Get(ctx context.Context, id int) (domain.Quote, error)

	// Add assigns an id to the draft and appends it to the collection.
	Add(ctx context.Context, draft domain.Draft) (domain.Quote, error)

	// Update replaces the quote with the same id, keeping its position.
	// Returns domain.ErrNotFound if the quote does not exist; the
	// collection is left untouched in that case.
	Update(ctx context.Context, quote domain.Quote) error

	// Delete removes the quote with the given id.
	// Returns domain.ErrNotFound if the quote does not exist.
	Delete(ctx context.Context, id int) error
}

// QuoteSource fetches quotes from an upstream service.
//
// Key considerations:
//   - Handle timeouts via context deadline
//   - Map external errors to domain errors
//   - Transform external DTOs to domain types
type QuoteSource interface {
	// RandomQuote fetches one quote as an uncommitted draft.
	// Returns domain.ErrUnavailable if the service is unreachable.
	RandomQuote(ctx context.Context) (domain.Draft, error)
}

// EventPublisher delivers change notifications to observers.
type EventPublisher interface {
	// Publish delivers the event to every subscriber.
	Publish(ctx context.Context, event domain.Event) error
}
