// Package tui is the terminal front end of the quote manager: a searchable
// list of quote cards and an add/edit modal, driven by app.QuoteManager.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jsamuelsen/quote-manager/internal/adapters/memory"
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

const (
	eventBuffer = 32
	importCount = 5
)

// Config contains the dependencies of the UI.
type Config struct {
	// Manager is required.
	Manager *app.QuoteManager

	// Events, when set, feeds the status line.
	Events *memory.Broadcaster

	// Importer enables the import key.
	Importer *app.Importer

	Logger *slog.Logger
}

type focus int

const (
	focusList focus = iota
	focusSearch
	focusText
	focusAuthor
	focusCategory
)

type eventMsg domain.Event

type importDoneMsg struct {
	result app.ImportResult
	err    error
}

// Model is the bubbletea model.
type Model struct {
	ctx      context.Context
	manager  *app.QuoteManager
	importer *app.Importer
	events   chan domain.Event
	logger   *slog.Logger

	keys   keyMap
	styles styles
	help   help.Model

	search textinput.Model
	text   textarea.Model
	author textinput.Model

	focus     focus
	quotes    []domain.Quote
	cursor    int
	status    string
	statusErr bool
	importing bool

	width  int
	height int
}

// New creates the model and subscribes it to cfg.Events.
func New(ctx context.Context, cfg Config) Model {
	if cfg.Manager == nil {
		panic("tui: Manager is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search text or author"
	search.CharLimit = 200
	search.SetValue(cfg.Manager.Search())

	text := textarea.New()
	text.Placeholder = "Quote text"
	text.ShowLineNumbers = false
	text.SetHeight(3)

	author := textinput.New()
	author.Placeholder = "Author"
	author.CharLimit = 200

	m := Model{
		ctx:      ctx,
		manager:  cfg.Manager,
		importer: cfg.Importer,
		logger:   logger.With(slog.String("component", "tui")),
		keys:     defaultKeyMap(),
		styles:   defaultStyles(),
		help:     help.New(),
		search:   search,
		text:     text,
		author:   author,
		width:    80,
		height:   24,
	}

	if cfg.Events != nil {
		events := make(chan domain.Event, eventBuffer)
		cfg.Events.Subscribe(func(_ context.Context, e domain.Event) {
			select {
			case events <- e:
			default:
			}
		})
		m.events = events
	}

	m.refresh()

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.text.SetWidth(min(max(msg.Width-12, 20), 80))
		m.author.Width = min(max(msg.Width-12, 20), 80)

		return m, nil

	case eventMsg:
		m.setStatus(describe(domain.Event(msg)), false)
		m.refresh()

		return m, m.waitForEvent()

	case importDoneMsg:
		m.importing = false
		if msg.err != nil {
			m.setStatus("import failed: "+msg.err.Error(), true)
		} else {
			m.setStatus(fmt.Sprintf("imported %d quotes (%d duplicates, %d failed)",
				len(msg.result.Imported), msg.result.Duplicates, msg.result.Failed), false)
		}

		m.refresh()

		return m, nil

	case tea.KeyMsg:
		switch {
		case m.manager.Form().IsOpen():
			return m.updateForm(msg)
		case m.focus == focusSearch:
			return m.updateSearch(msg)
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		cmd := m.search.Focus()

		return m, cmd

	case key.Matches(msg, m.keys.Up):
		m.cursor = max(m.cursor-1, 0)

	case key.Matches(msg, m.keys.Down):
		m.cursor = min(m.cursor+1, max(len(m.quotes)-1, 0))

	case key.Matches(msg, m.keys.Add):
		cmd := m.openForm(m.manager.OpenAdd(m.ctx))

		return m, cmd

	case key.Matches(msg, m.keys.Edit):
		q, ok := m.selected()
		if !ok {
			return m, nil
		}

		form, err := m.manager.OpenEdit(m.ctx, q.ID)
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, nil
		}

		cmd := m.openForm(form)

		return m, cmd

	case key.Matches(msg, m.keys.Delete):
		q, ok := m.selected()
		if !ok {
			return m, nil
		}

		if err := m.manager.Delete(m.ctx, q.ID); err != nil {
			m.setStatus(err.Error(), true)
		}

		m.refresh()

	case key.Matches(msg, m.keys.Import):
		if m.importer == nil || m.importing {
			return m, nil
		}

		m.importing = true
		m.setStatus("importing…", false)

		return m, m.runImport()
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc || msg.Type == tea.KeyEnter {
		m.focus = focusList
		m.search.Blur()

		return m, nil
	}

	var cmd tea.Cmd

	before := m.search.Value()
	m.search, cmd = m.search.Update(msg)

	if term := m.search.Value(); term != before {
		if err := m.manager.SetSearch(m.ctx, term); err != nil {
			m.setStatus(err.Error(), true)
		}

		m.refresh()
	}

	return m, cmd
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		quote, committed, err := m.manager.Save(m.ctx)

		switch {
		case err != nil:
			m.setStatus(err.Error(), true)
		case !committed:
			m.setStatus("quote no longer exists, nothing saved", false)
		default:
			m.setStatus(fmt.Sprintf("saved quote #%d", quote.ID), false)
		}

		if !m.manager.Form().IsOpen() {
			m.closeForm()
		}

		return m, nil

	case key.Matches(msg, m.keys.Cancel):
		m.manager.Cancel(m.ctx)
		m.closeForm()

		return m, nil

	case key.Matches(msg, m.keys.Next):
		cmd := m.focusField(focusText + (m.focus-focusText+1)%3)

		return m, cmd

	case key.Matches(msg, m.keys.Prev):
		cmd := m.focusField(focusText + (m.focus-focusText+2)%3)

		return m, cmd
	}

	var cmd tea.Cmd

	switch m.focus {
	case focusText:
		cmd = m.editField(domain.FieldText, msg)
	case focusAuthor:
		cmd = m.editField(domain.FieldAuthor, msg)
	case focusCategory:
		if key.Matches(msg, m.keys.Category) {
			m.cycleCategory(msg.String() == "right")
		}
	}

	return m, cmd
}

// editField forwards msg to the focused input and reports a changed value
// to the manager.
func (m *Model) editField(field domain.Field, msg tea.KeyMsg) tea.Cmd {
	var (
		cmd           tea.Cmd
		before, after string
	)

	switch field {
	case domain.FieldText:
		before = m.text.Value()
		m.text, cmd = m.text.Update(msg)
		after = m.text.Value()
	default:
		before = m.author.Value()
		m.author, cmd = m.author.Update(msg)
		after = m.author.Value()
	}

	if after != before {
		if _, err := m.manager.ChangeField(m.ctx, field, after); err != nil {
			m.setStatus(err.Error(), true)
		}
	}

	return cmd
}

func (m *Model) cycleCategory(forward bool) {
	categories := domain.Categories()
	i := slices.Index(categories, m.manager.Form().Values().Category)

	switch {
	case i < 0 && forward:
		i = 0
	case i < 0:
		i = len(categories) - 1
	case forward:
		i = (i + 1) % len(categories)
	default:
		i = (i + len(categories) - 1) % len(categories)
	}

	if _, err := m.manager.ChangeField(m.ctx, domain.FieldCategory, categories[i].String()); err != nil {
		m.setStatus(err.Error(), true)
	}
}

func (m *Model) openForm(form domain.Form) tea.Cmd {
	values := form.Values()
	m.text.SetValue(values.Text)
	m.author.SetValue(values.Author)

	return m.focusField(focusText)
}

func (m *Model) closeForm() {
	m.text.Blur()
	m.author.Blur()
	m.focus = focusList
	m.refresh()
}

func (m *Model) focusField(f focus) tea.Cmd {
	m.focus = f
	m.text.Blur()
	m.author.Blur()

	switch f {
	case focusText:
		return m.text.Focus()
	case focusAuthor:
		return m.author.Focus()
	default:
		return nil
	}
}

func (m *Model) refresh() {
	quotes, err := m.manager.Visible(m.ctx)
	if err != nil {
		m.logger.WarnContext(m.ctx, "listing quotes", slog.Any("error", err))
		return
	}

	m.quotes = quotes
	m.cursor = min(m.cursor, max(len(quotes)-1, 0))
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status, m.statusErr = s, isErr

	if isErr {
		m.logger.WarnContext(m.ctx, "ui error", slog.String("error", s))
	}
}

func (m Model) selected() (domain.Quote, bool) {
	if m.cursor < 0 || m.cursor >= len(m.quotes) {
		return domain.Quote{}, false
	}

	return m.quotes[m.cursor], true
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}

	events := m.events

	return func() tea.Msg {
		return eventMsg(<-events)
	}
}

func (m Model) runImport() tea.Cmd {
	importer, ctx := m.importer, m.ctx

	return func() tea.Msg {
		result, err := importer.Import(ctx, app.ImportRequest{Count: importCount, BestEffort: true})
		return importDoneMsg{result: result, err: err}
	}
}

func describe(e domain.Event) string {
	switch e.Kind {
	case domain.EventQuoteAdded:
		return fmt.Sprintf("added #%d by %s", e.Quote.ID, e.Quote.Author)
	case domain.EventQuoteUpdated:
		return fmt.Sprintf("updated #%d", e.Quote.ID)
	case domain.EventQuoteDeleted:
		return fmt.Sprintf("deleted #%d", e.Quote.ID)
	case domain.EventSearchChanged:
		if e.Search == "" {
			return "search cleared"
		}

		return fmt.Sprintf("searching %q", e.Search)
	case domain.EventFormChanged:
		if e.Form.IsOpen() {
			return e.Form.Title()
		}

		return "form closed"
	default:
		return e.EventType()
	}
}
