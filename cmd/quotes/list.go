package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-manager/internal/domain"
)

func newListCmd(opts *options) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the starting collection",
		Long: `Print the seed collection, optionally filtered by a case-insensitive
search on text or author.`,
		Example: `  quotes list
  quotes list --search lennon`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(io.Discard, nil))

			c, err := build(cfg, nil, logger)
			if err != nil {
				return err
			}

			quotes, err := c.service.List(cmd.Context(), search)
			if err != nil {
				return err
			}

			printQuotes(cmd.OutOrStdout(), quotes)

			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only print quotes whose text or author contains this term")

	return cmd
}

func printQuotes(w io.Writer, quotes []domain.Quote) {
	if len(quotes) == 0 {
		fmt.Fprintln(w, "no quotes")
		return
	}

	for _, q := range quotes {
		category := q.Category.String()
		if category == "" {
			category = "-"
		}

		fmt.Fprintf(w, "%3d  %-10s  %q\n     by %s\n", q.ID, category, q.Text, q.Author)
	}
}
