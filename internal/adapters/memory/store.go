// Package memory provides in-process implementations of the quote ports.
// All state is lost when the process exits.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// IDStrategy selects how Add assigns ids.
type IDStrategy string

const (
	// IDMaxPlusOne assigns max(existing)+1, or 1 on an empty collection.
	// Deleting the quote with the highest id lets the next Add reuse it.
	IDMaxPlusOne IDStrategy = "max_plus_one"

	// IDSequence assigns from a counter that never goes backwards,
	// so ids are never reused within a session.
	IDSequence IDStrategy = "sequence"
)

// StoreConfig contains configuration for the quote store.
type StoreConfig struct {
	// IDStrategy defaults to IDMaxPlusOne.
	IDStrategy IDStrategy

	// Seed is the initial collection, copied in order.
	Seed []domain.Quote
}

// QuoteStore is the ordered in-memory quote collection.
// It is safe for concurrent use.
type QuoteStore struct {
	mu       sync.RWMutex
	quotes   []domain.Quote
	strategy IDStrategy
	highest  int
}

// NewQuoteStore creates a store holding a copy of cfg.Seed.
func NewQuoteStore(cfg StoreConfig) *QuoteStore {
	strategy := cfg.IDStrategy
	if strategy == "" {
		strategy = IDMaxPlusOne
	}

	s := &QuoteStore{
		quotes:   slices.Clone(cfg.Seed),
		strategy: strategy,
	}
	s.highest = s.maxID()

	return s
}

// List returns a copy of the collection in insertion order.
func (s *QuoteStore) List(_ context.Context) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.quotes), nil
}

// Get returns the quote with the given id.
func (s *QuoteStore) Get(_ context.Context, id int) (domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Quote{}, domain.NewQuoteNotFoundError(id)
	}

	return s.quotes[i], nil
}

// Add commits the draft under a freshly assigned id and appends it.
// It never fails.
func (s *QuoteStore) Add(_ context.Context, draft domain.Draft) (domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	quote := draft.WithID(s.nextID())
	s.quotes = append(s.quotes, quote)

	if quote.ID > s.highest {
		s.highest = quote.ID
	}

	return quote, nil
}

// Update replaces the quote with the same id in place.
func (s *QuoteStore) Update(_ context.Context, quote domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(quote.ID)
	if i < 0 {
		return domain.NewQuoteNotFoundError(quote.ID)
	}

	s.quotes[i] = quote

	return nil
}

// Delete removes the quote with the given id.
func (s *QuoteStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.NewQuoteNotFoundError(id)
	}

	s.quotes = slices.Delete(s.quotes, i, i+1)

	return nil
}

// Len returns the number of stored quotes.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes)
}

// Name implements ports.HealthChecker.
func (s *QuoteStore) Name() string {
	return "quote-store"
}

// Check implements ports.HealthChecker. The store is healthy whenever its
// ids are unique.
func (s *QuoteStore) Check(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int]struct{}, len(s.quotes))
	for _, q := range s.quotes {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate quote id %d", q.ID)
		}
		seen[q.ID] = struct{}{}
	}

	return nil
}

// nextID must be called with mu held.
func (s *QuoteStore) nextID() int {
	if s.strategy == IDSequence {
		return s.highest + 1
	}

	return s.maxID() + 1
}

func (s *QuoteStore) maxID() int {
	highest := 0
	for _, q := range s.quotes {
		highest = max(highest, q.ID)
	}

	return highest
}

func (s *QuoteStore) indexOf(id int) int {
	return slices.IndexFunc(s.quotes, func(q domain.Quote) bool {
		return q.ID == id
	})
}
