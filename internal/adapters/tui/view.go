package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// chrome is the number of lines taken by everything except the cards.
const (
	chrome     = 8
	cardHeight = 5
)

// View implements tea.Model.
func (m Model) View() string {
	if form := m.manager.Form(); form.IsOpen() {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.viewForm(form))
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(fmt.Sprintf("Quotes (%d)", len(m.quotes))))
	b.WriteByte('\n')
	b.WriteString(m.styles.Search.Render(m.search.View()))
	b.WriteByte('\n')
	b.WriteString(m.viewCards())
	b.WriteString(m.viewStatus())
	b.WriteByte('\n')
	b.WriteString(m.help.View(listKeys{keyMap: m.keys, importEnabled: m.importer != nil}))

	return b.String()
}

func (m Model) viewCards() string {
	if len(m.quotes) == 0 {
		if m.manager.Search() != "" {
			return m.styles.Empty.Render("No quotes match your search.") + "\n"
		}

		return m.styles.Empty.Render("No quotes yet. Press a to add one.") + "\n"
	}

	start, end := m.window()
	width := min(max(m.width-4, 20), 100)

	var b strings.Builder

	for i := start; i < end; i++ {
		q := m.quotes[i]

		style := m.styles.Card
		if i == m.cursor {
			style = m.styles.Selected
		}

		body := m.styles.Text.Render(fmt.Sprintf("%q", q.Text)) + "\n" +
			m.styles.Author.Render("by "+q.Author)
		if q.Category != "" {
			body += "  " + m.styles.Badge.Render(q.Category.String())
		}

		b.WriteString(style.Width(width).Render(body))
		b.WriteByte('\n')
	}

	return b.String()
}

// window returns the range of cards that fits the terminal and contains the
// cursor.
func (m Model) window() (int, int) {
	visible := max((m.height-chrome)/cardHeight, 1)
	start := max(m.cursor-visible+1, 0)
	end := min(start+visible, len(m.quotes))

	return start, end
}

func (m Model) viewForm(form domain.Form) string {
	values := form.Values()

	label := func(f focus, name string) string {
		if m.focus == f {
			return m.styles.Focused.Render("› " + name)
		}

		return m.styles.Label.Render("  " + name)
	}

	categories := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		name := c.String()
		if c == values.Category {
			name = m.styles.Badge.Render("[" + name + "]")
		}

		categories = append(categories, name)
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(form.Title()))
	b.WriteByte('\n')
	b.WriteString(label(focusText, "Text") + "\n" + m.text.View() + "\n\n")
	b.WriteString(label(focusAuthor, "Author") + "\n" + m.author.View() + "\n\n")
	b.WriteString(label(focusCategory, "Category") + "\n  " + strings.Join(categories, "  ") + "\n\n")
	b.WriteString(m.styles.Focused.Render("ctrl+s " + form.SubmitLabel()))
	b.WriteByte('\n')
	b.WriteString(m.viewStatus())
	b.WriteString(m.help.View(formKeys{keyMap: m.keys}))

	return m.styles.Modal.Render(b.String())
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}

	if m.statusErr {
		return m.styles.Error.Render(m.status) + "\n"
	}

	return m.styles.Status.Render(m.status) + "\n"
}

// Run starts the UI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	p := tea.NewProgram(New(ctx, cfg), tea.WithAltScreen(), tea.WithContext(ctx))

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}

	if err != nil {
		return fmt.Errorf("running tui: %w", err)
	}

	return nil
}
