// Package main is the entry point for the quotes command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the persistent flags shared by every subcommand.
type options struct {
	profile   string
	configDir string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "quotes",
		Short: "Manage an in-memory collection of quotes",
		Long: `quotes keeps a small collection of quotations in memory.

The collection starts from the built-in seed (or quotes.seed_file) and lives
for the duration of one process. It can be browsed and edited from the
terminal UI or over the HTTP API.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.profile, "profile", "p", defaultProfile(),
		"Configuration profile (default: $APP_ENVIRONMENT or local)")
	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", "configs",
		"Directory holding base.yaml and {profile}.yaml")

	root.AddCommand(
		newServeCmd(opts),
		newTUICmd(opts),
		newListCmd(opts),
	)

	return root
}

func defaultProfile() string {
	if profile := os.Getenv("APP_ENVIRONMENT"); profile != "" {
		return profile
	}

	return "local"
}
