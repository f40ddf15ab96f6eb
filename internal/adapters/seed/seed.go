// Package seed loads the initial quote collection from a YAML file.
//
// File format:
//
//	quotes:
//	  - id: 1
//	    text: "The only impossible journey is the one you never begin."
//	    author: Tony Robbins
//	    category: Motivation
//
// An id of 0 (or an omitted id) is assigned max(previous)+1 in file order.
package seed

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

type file struct {
	Quotes []entry `yaml:"quotes"`
}

type entry struct {
	ID       int    `yaml:"id"`
	Text     string `yaml:"text"`
	Author   string `yaml:"author"`
	Category string `yaml:"category"`
}

// Load returns domain.SeedQuotes when path is empty, otherwise the
// quotes listed in the file at path.
func Load(path string) ([]domain.Quote, error) {
	if path == "" {
		return domain.SeedQuotes(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a seed document. Unknown keys and duplicate ids are rejected.
func Parse(data []byte) ([]domain.Quote, error) {
	var doc file

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	quotes := make([]domain.Quote, 0, len(doc.Quotes))
	seen := make(map[int]struct{}, len(doc.Quotes))
	highest := 0

	for i, e := range doc.Quotes {
		id := e.ID
		if id < 0 {
			return nil, domain.NewValidationErrorWithValue(
				fmt.Sprintf("quotes[%d].id", i), "must not be negative", e.ID)
		}

		if id == 0 {
			id = highest + 1
		}

		if _, dup := seen[id]; dup {
			return nil, domain.NewValidationErrorWithValue(
				fmt.Sprintf("quotes[%d].id", i), "duplicate id", id)
		}

		seen[id] = struct{}{}
		highest = max(highest, id)

		quotes = append(quotes, domain.Quote{
			ID:       id,
			Text:     e.Text,
			Author:   e.Author,
			Category: domain.Category(e.Category),
		})
	}

	return quotes, nil
}
