// Package domain contains core business entities and rules.
package domain

import (
	"slices"
	"strings"
)

// Quote represents a quotation with its author and category.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is unique within the collection and stable for the quote's lifetime.
	ID int

	// Text is the body of the quote.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Category classifies the quote.
	Category Category
}

// Draft is a quote that has not been committed yet and therefore has no ID.
type Draft struct {
	Text     string
	Author   string
	Category Category
}

// IsZero reports whether every field of the draft is empty.
func (d Draft) IsZero() bool {
	return d.Text == "" && d.Author == "" && d.Category == ""
}

// WithID commits the draft fields under the given id.
func (d Draft) WithID(id int) Quote {
	return Quote{
		ID:       id,
		Text:     d.Text,
		Author:   d.Author,
		Category: d.Category,
	}
}

// Draft returns the quote's fields without its id.
func (q Quote) Draft() Draft {
	return Draft{
		Text:     q.Text,
		Author:   q.Author,
		Category: q.Category,
	}
}

// Category is the classification of a quote.
// The UI offers a closed set; stores accept any value.
type Category string

// Known categories offered by the presentation layer.
const (
	CategoryMotivation Category = "Motivation"
	CategoryLife       Category = "Life"
	CategoryHappiness  Category = "Happiness"
)

var categories = []Category{CategoryMotivation, CategoryLife, CategoryHappiness}

// Categories returns the closed set of categories in display order.
func Categories() []Category {
	return slices.Clone(categories)
}

// IsKnown reports whether c belongs to the closed category set.
func (c Category) IsKnown() bool {
	return slices.Contains(categories, c)
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}

	return "", NewValidationErrorWithValue("category", "must be one of: "+CategoryNames(), s)
}

// CategoryNames returns the closed set joined by spaces, e.g. for oneof tags.
func CategoryNames() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}

	return strings.Join(names, " ")
}

// SeedQuotes returns the collection a fresh session starts with.
func SeedQuotes() []Quote {
	return []Quote{
		{
			ID:       1,
			Text:     "The only impossible journey is the one you never begin.",
			Author:   "Tony Robbins",
			Category: CategoryMotivation,
		},
		{
			ID:       2,
			Text:     "Life is what happens when you’re busy making other plans.",
			Author:   "John Lennon",
			Category: CategoryLife,
		},
	}
}
