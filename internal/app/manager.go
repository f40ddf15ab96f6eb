package app

import (
	"context"
	"log/slog"
	"sync"

	"github.com/jsamuelsen/quote-manager/internal/domain"
	"github.com/jsamuelsen/quote-manager/internal/ports"
)

// QuoteManagerConfig contains configuration for the quote manager.
type QuoteManagerConfig struct {
	// Service is required.
	Service *QuoteService

	// Publisher receives form.changed and search.changed events.
	Publisher ports.EventPublisher

	// ResetDraftOnCancel clears the add draft when the form is cancelled.
	// By default the draft survives until the next successful add.
	ResetDraftOnCancel bool

	Logger *slog.Logger
}

// QuoteManager owns the search term and the add/edit form and turns user
// intents into quote service calls. Intents are serialized; observers are
// notified after the intent has been applied. Subscribers must not call
// back into the manager.
type QuoteManager struct {
	svc                *QuoteService
	publisher          ports.EventPublisher
	resetDraftOnCancel bool
	logger             *slog.Logger

	mu     sync.Mutex
	search string
	form   domain.Form
	draft  domain.Draft
}

// NewQuoteManager creates a manager with a closed form and an empty search.
func NewQuoteManager(cfg QuoteManagerConfig) *QuoteManager {
	if cfg.Service == nil {
		panic("app: QuoteManager requires a Service")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteManager{
		svc:                cfg.Service,
		publisher:          cfg.Publisher,
		resetDraftOnCancel: cfg.ResetDraftOnCancel,
		logger:             logger.With(slog.String("component", "app.QuoteManager")),
	}
}

// Service returns the underlying quote service.
func (m *QuoteManager) Service() *QuoteService {
	return m.svc
}

// SetSearch replaces the search term.
func (m *QuoteManager) SetSearch(ctx context.Context, term string) error {
	if err := m.svc.ValidateSearch(term); err != nil {
		return err
	}

	m.mu.Lock()
	m.search = term
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventSearchChanged, Search: term})

	return nil
}

// Search returns the current search term.
func (m *QuoteManager) Search() string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.search
}

// Visible returns the quotes matching the current search term.
func (m *QuoteManager) Visible(ctx context.Context) ([]domain.Quote, error) {
	return m.svc.List(ctx, m.Search())
}

// Form returns the current form state.
func (m *QuoteManager) Form() domain.Form {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.form
}

// OpenAdd opens the form in add mode on the retained draft.
// Any edit in progress is dropped.
func (m *QuoteManager) OpenAdd(ctx context.Context) domain.Form {
	m.mu.Lock()
	m.form = domain.AddForm(m.draft)
	form := m.form
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventFormChanged, Form: form})

	return form
}

// OpenEdit opens the form in edit mode on a copy of quote id.
// An unknown id leaves the form untouched and is reported only under
// MissingIDReport.
func (m *QuoteManager) OpenEdit(ctx context.Context, id int) (domain.Form, error) {
	quote, err := m.svc.Get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) && m.svc.MissingIDPolicy() == MissingIDIgnore {
			return m.Form(), nil
		}

		return m.Form(), err
	}

	m.mu.Lock()
	m.form = domain.EditForm(quote)
	form := m.form
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventFormChanged, Form: form})

	return form, nil
}

// ChangeField sets one field of the draft (add mode) or the working copy
// (edit mode). It is ignored while the form is closed.
func (m *QuoteManager) ChangeField(ctx context.Context, field domain.Field, value string) (domain.Form, error) {
	if _, err := domain.ParseField(string(field)); err != nil {
		return m.Form(), err
	}

	m.mu.Lock()

	if !m.form.IsOpen() {
		form := m.form
		m.mu.Unlock()

		return form, nil
	}

	form, err := m.form.Set(field, value)
	if err != nil {
		m.mu.Unlock()
		return m.form, err
	}

	m.form = form
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventFormChanged, Form: form})

	return form, nil
}

// Save commits the form and closes it. In add mode the draft becomes a new
// quote and is reset. In edit mode the working copy replaces the quote with
// the same id. The bool reports whether anything was committed: it is false
// when the edited quote vanished under MissingIDIgnore, and the returned
// quote is then zero. Saving a closed form is a conflict.
func (m *QuoteManager) Save(ctx context.Context) (domain.Quote, bool, error) {
	m.mu.Lock()

	wasOpen := m.form.IsOpen()

	defer func() {
		form := m.form
		m.mu.Unlock()

		if wasOpen && !form.IsOpen() {
			m.notify(ctx, domain.Event{Kind: domain.EventFormChanged, Form: form})
		}
	}()

	switch m.form.Mode() {
	case domain.FormAdd:
		draft, _ := m.form.AddDraft()

		quote, err := m.svc.Add(ctx, draft)
		if err != nil {
			return domain.Quote{}, false, err
		}

		m.draft = domain.Draft{}
		m.form = domain.ClosedForm()

		return quote, true, nil

	case domain.FormEdit:
		working, _ := m.form.WorkingCopy()
		m.form = domain.ClosedForm()

		updated, err := m.svc.Edit(ctx, working)
		if err != nil || !updated {
			return domain.Quote{}, false, err
		}

		return working, true, nil

	default:
		return domain.Quote{}, false, domain.NewConflictError("form", "modal is closed")
	}
}

// Cancel closes the form without committing. The working copy of an edit
// is discarded. The add draft is kept for the next OpenAdd unless the
// manager was configured with ResetDraftOnCancel.
func (m *QuoteManager) Cancel(ctx context.Context) domain.Form {
	m.mu.Lock()

	if draft, ok := m.form.AddDraft(); ok {
		m.draft = draft
	}

	if m.resetDraftOnCancel {
		m.draft = domain.Draft{}
	}

	m.form = domain.ClosedForm()
	form := m.form
	m.mu.Unlock()

	m.notify(ctx, domain.Event{Kind: domain.EventFormChanged, Form: form})

	return form
}

// Delete removes a quote without confirmation.
func (m *QuoteManager) Delete(ctx context.Context, id int) error {
	_, err := m.svc.Delete(ctx, id)

	return err
}

func (m *QuoteManager) notify(ctx context.Context, event domain.Event) {
	if m.publisher == nil {
		return
	}

	if err := m.publisher.Publish(ctx, event); err != nil {
		m.logger.WarnContext(ctx, "failed to publish event",
			slog.String("event", event.EventType()),
			slog.Any("error", err),
		)
	}
}
