package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/mocks"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// discardLogger returns a logger that discards all output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingMetrics captures RecordOperation calls.
type recordingMetrics struct {
	ops    []string
	stored int
}

func (r *recordingMetrics) RecordOperation(operation, result string) {
	r.ops = append(r.ops, operation+":"+result)
}

func (r *recordingMetrics) SetStored(count int) {
	r.stored = count
}

func newSeededService(t *testing.T, policy MissingIDPolicy) (*QuoteService, *recordingMetrics) {
	t.Helper()

	metrics := &recordingMetrics{}
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: memory.NewQuoteStore(memory.StoreConfig{Seed: domain.SeedQuotes()}),
		Metrics:    metrics,
		MissingID:  policy,
		Logger:     discardLogger(),
	})

	return svc, metrics
}

func TestNewQuoteService_PanicsWithoutRepository(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteService(QuoteServiceConfig{Logger: slog.Default()})
	})
}

func TestNewQuoteService_Defaults(t *testing.T) {
	svc := NewQuoteService(QuoteServiceConfig{
		Repository: mocks.NewMockQuoteRepository(t),
	})

	require.NotNil(t, svc)
	assert.Equal(t, MissingIDIgnore, svc.MissingIDPolicy())
	assert.NotNil(t, svc.logger)
	assert.NotNil(t, svc.metrics)
}

func TestQuoteService_List(t *testing.T) {
	tests := []struct {
		name    string
		search  string
		wantIDs []int
	}{
		{name: "empty search returns all", search: "", wantIDs: []int{1, 2}},
		{name: "author search", search: "lennon", wantIDs: []int{2}},
		{name: "no match", search: "nietzsche", wantIDs: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSeededService(t, MissingIDIgnore)

			quotes, err := svc.List(context.Background(), tt.search)
			require.NoError(t, err)

			ids := make([]int, 0, len(quotes))
			for _, q := range quotes {
				ids = append(ids, q.ID)
			}

			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestQuoteService_List_SearchTooLong(t *testing.T) {
	svc := NewQuoteService(QuoteServiceConfig{
		Repository:      mocks.NewMockQuoteRepository(t),
		SearchMaxLength: 5,
		Logger:          discardLogger(),
	})

	_, err := svc.List(context.Background(), strings.Repeat("x", 6))

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))
}

func TestQuoteService_List_RepositoryError(t *testing.T) {
	repo := mocks.NewMockQuoteRepository(t)
	repo.EXPECT().List(mock.Anything).Return(nil, errors.New("disk on fire"))

	svc := NewQuoteService(QuoteServiceConfig{Repository: repo, Logger: discardLogger()})

	_, err := svc.List(context.Background(), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing quotes")
}

func TestQuoteService_Add(t *testing.T) {
	svc, metrics := newSeededService(t, MissingIDIgnore)

	quote, err := svc.Add(context.Background(), domain.Draft{Text: "T", Author: "A", Category: domain.CategoryLife})

	require.NoError(t, err)
	assert.Equal(t, 3, quote.ID)
	assert.Equal(t, []string{"add:ok"}, metrics.ops)
	assert.Equal(t, 3, metrics.stored)
}

func TestQuoteService_Add_PublishesEvent(t *testing.T) {
	repo := mocks.NewMockQuoteRepository(t)
	publisher := mocks.NewMockEventPublisher(t)
	draft := domain.Draft{Text: "T", Author: "A", Category: domain.CategoryLife}
	added := draft.WithID(3)

	repo.EXPECT().Add(mock.Anything, draft).Return(added, nil)
	repo.EXPECT().List(mock.Anything).Return([]domain.Quote{added}, nil).Maybe()
	publisher.EXPECT().
		Publish(mock.Anything, domain.Event{Kind: domain.EventQuoteAdded, Quote: added}).
		Return(nil)

	svc := NewQuoteService(QuoteServiceConfig{
		Repository: repo,
		Publisher:  publisher,
		Logger:     discardLogger(),
	})

	quote, err := svc.Add(context.Background(), draft)

	require.NoError(t, err)
	assert.Equal(t, added, quote)
}

func TestQuoteService_Add_PublishFailureIsNotFatal(t *testing.T) {
	repo := mocks.NewMockQuoteRepository(t)
	publisher := mocks.NewMockEventPublisher(t)

	repo.EXPECT().Add(mock.Anything, mock.Anything).Return(domain.Quote{ID: 1}, nil)
	repo.EXPECT().List(mock.Anything).Return(nil, nil).Maybe()
	publisher.EXPECT().Publish(mock.Anything, mock.Anything).Return(errors.New("bus down"))

	svc := NewQuoteService(QuoteServiceConfig{Repository: repo, Publisher: publisher, Logger: discardLogger()})

	_, err := svc.Add(context.Background(), domain.Draft{})

	assert.NoError(t, err)
}

func TestQuoteService_Edit(t *testing.T) {
	tests := []struct {
		name        string
		policy      MissingIDPolicy
		quote       domain.Quote
		wantUpdated bool
		wantOp      string
		errCheck    func(error) bool
	}{
		{
			name:        "existing quote",
			policy:      MissingIDIgnore,
			quote:       domain.Quote{ID: 2, Text: "x", Author: "y", Category: domain.CategoryHappiness},
			wantUpdated: true,
			wantOp:      "edit:ok",
		},
		{
			name:   "missing id ignored",
			policy: MissingIDIgnore,
			quote:  domain.Quote{ID: 42},
			wantOp: "edit:ignored",
		},
		{
			name:     "missing id reported",
			policy:   MissingIDReport,
			quote:    domain.Quote{ID: 42},
			wantOp:   "edit:not_found",
			errCheck: domain.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, metrics := newSeededService(t, tt.policy)
			before, _ := svc.List(context.Background(), "")

			updated, err := svc.Edit(context.Background(), tt.quote)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantUpdated, updated)
			assert.Equal(t, []string{tt.wantOp}, metrics.ops)

			if !tt.wantUpdated {
				after, _ := svc.List(context.Background(), "")
				assert.Equal(t, before, after)
			}
		})
	}
}

func TestQuoteService_Delete(t *testing.T) {
	tests := []struct {
		name        string
		policy      MissingIDPolicy
		id          int
		wantDeleted bool
		wantIDs     []int
		errCheck    func(error) bool
	}{
		{name: "existing quote", policy: MissingIDIgnore, id: 1, wantDeleted: true, wantIDs: []int{2}},
		{name: "missing id ignored", policy: MissingIDIgnore, id: 9, wantIDs: []int{1, 2}},
		{name: "missing id reported", policy: MissingIDReport, id: 9, wantIDs: []int{1, 2}, errCheck: domain.IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newSeededService(t, tt.policy)

			deleted, err := svc.Delete(context.Background(), tt.id)

			if tt.errCheck != nil {
				require.Error(t, err)
				assert.True(t, tt.errCheck(err))
			} else {
				require.NoError(t, err)
			}

			assert.Equal(t, tt.wantDeleted, deleted)

			quotes, _ := svc.List(context.Background(), "")
			ids := make([]int, 0, len(quotes))
			for _, q := range quotes {
				ids = append(ids, q.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestQuoteService_Delete_RepositoryErrorIsNotSwallowed(t *testing.T) {
	repo := mocks.NewMockQuoteRepository(t)
	repo.EXPECT().Delete(mock.Anything, 1).Return(errors.New("locked"))

	svc := NewQuoteService(QuoteServiceConfig{Repository: repo, Logger: discardLogger()})

	_, err := svc.Delete(context.Background(), 1)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestQuoteService_Get(t *testing.T) {
	svc, _ := newSeededService(t, MissingIDIgnore)

	q, err := svc.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "John Lennon", q.Author)

	_, err = svc.Get(context.Background(), 7)
	assert.True(t, domain.IsNotFound(err))
}
