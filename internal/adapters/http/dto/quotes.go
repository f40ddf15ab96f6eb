package dto

import (
	"github.com/jsamuelsen/quote-manager/internal/app"
	"github.com/jsamuelsen/quote-manager/internal/domain"
)

// QuoteRequest is the body of POST /quotes and PUT /quotes/{id}.
// Text and author are stored as given, empty included. An omitted category
// is stored as empty.
type QuoteRequest struct {
	Text     string `json:"text"     validate:"max=2000"`
	Author   string `json:"author"   validate:"max=200"`
	Category string `json:"category" validate:"omitempty,category"`
}

// Draft converts r to a domain draft with a canonical category.
func (r QuoteRequest) Draft() domain.Draft {
	category, _ := domain.ParseCategory(r.Category)

	return domain.Draft{
		Text:     r.Text,
		Author:   r.Author,
		Category: category,
	}
}

// QuoteResponse is a stored quote.
type QuoteResponse struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// NewQuoteResponse converts q.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{ID: q.ID, Text: q.Text, Author: q.Author, Category: q.Category.String()}
}

// QuoteListResponse is the body of GET /quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Count  int             `json:"count"`
	Search string          `json:"search,omitempty"`
}

// NewQuoteListResponse converts quotes, never returning a null list.
func NewQuoteListResponse(quotes []domain.Quote, search string) QuoteListResponse {
	out := make([]QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, NewQuoteResponse(q))
	}

	return QuoteListResponse{Quotes: out, Count: len(out), Search: search}
}

// ListQuery is the query of GET /quotes.
type ListQuery struct {
	Search string `form:"search"`
}

// ImportQuery is the query of POST /quotes/import.
type ImportQuery struct {
	Count      int  `form:"count"       validate:"min=1"`
	BestEffort bool `form:"best_effort"`
}

// ImportResponse reports an import.
type ImportResponse struct {
	Imported   []QuoteResponse `json:"imported"`
	Duplicates int             `json:"duplicates"`
	Failed     int             `json:"failed"`
}

// NewImportResponse converts r.
func NewImportResponse(r app.ImportResult) ImportResponse {
	imported := make([]QuoteResponse, 0, len(r.Imported))
	for _, q := range r.Imported {
		imported = append(imported, NewQuoteResponse(q))
	}

	return ImportResponse{Imported: imported, Duplicates: r.Duplicates, Failed: r.Failed}
}

// CategoriesResponse is the body of GET /categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// NewCategoriesResponse lists the closed category set in display order.
func NewCategoriesResponse() CategoriesResponse {
	names := make([]string, 0, len(domain.Categories()))
	for _, c := range domain.Categories() {
		names = append(names, c.String())
	}

	return CategoriesResponse{Categories: names}
}

// FieldChange is the body of PATCH /form.
type FieldChange struct {
	Field string `json:"field" validate:"required,oneof=text author category"`
	Value string `json:"value"`
}

// FormFields are the values shown in the form.
type FormFields struct {
	Text     string `json:"text"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// FormResponse is the current form: its mode, labels and field values.
// EditingID is set only in edit mode.
type FormResponse struct {
	Mode        string     `json:"mode"`
	Title       string     `json:"title,omitempty"`
	SubmitLabel string     `json:"submitLabel,omitempty"`
	EditingID   *int       `json:"editingId,omitempty"`
	Fields      FormFields `json:"fields"`
}

// NewFormResponse converts f.
func NewFormResponse(f domain.Form) FormResponse {
	values := f.Values()
	resp := FormResponse{
		Mode:        f.Mode().String(),
		Title:       f.Title(),
		SubmitLabel: f.SubmitLabel(),
		Fields: FormFields{
			Text:     values.Text,
			Author:   values.Author,
			Category: values.Category.String(),
		},
	}

	if q, ok := f.WorkingCopy(); ok {
		id := q.ID
		resp.EditingID = &id
	}

	return resp
}
