package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quote-manager/internal/adapters/tui"
	"github.com/jsamuelsen/quote-manager/internal/platform/logging"
)

func newTUICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit quotes in the terminal",
		Long: `Open the interactive quote browser.

Logs go to log.file.path only, never to the terminal. Press q to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}
}

func runTUI(ctx context.Context, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closer, err := logging.NewFileOnly(loggingConfig(cfg))
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer closer.Close()

	logging.SetDefault(logger)

	shutdownTelemetry, err := startTelemetry(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer shutdownTelemetry()

	c, err := build(cfg, nil, logger)
	if err != nil {
		return err
	}

	logger.Info("starting tui", slog.String("version", Version), slog.Int("quotes", c.store.Len()))

	return tui.Run(ctx, tui.Config{
		Manager:  c.manager,
		Events:   c.events,
		Importer: c.importer,
		Logger:   logger,
	})
}
