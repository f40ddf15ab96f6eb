package domain

import "strings"

// Filter returns the quotes whose text or author contains term,
// ignoring case. Order is preserved. An empty term returns quotes as-is.
// Category is never searched.
func Filter(quotes []Quote, term string) []Quote {
	if term == "" {
		return quotes
	}

	needle := strings.ToLower(term)
	visible := make([]Quote, 0, len(quotes))

	for _, q := range quotes {
		if strings.Contains(strings.ToLower(q.Text), needle) ||
			strings.Contains(strings.ToLower(q.Author), needle) {
			visible = append(visible, q)
		}
	}

	return visible
}
