package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/topicstore/internal/app"
	"github.com/nfrund/topicstore/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "topicstore-cli",
	Short: "Topicstore CLI tool",
	Long: `Topicstore CLI is a command-line interface for the topic store:
named, independently durable event logs plus a catalog of topic metadata.

Available commands:
  topics     Manage the topic catalog (create, get, list, exists)
  publish    Append an event to a topic
  read       Replay every event stored for a topic
  tail       Follow a topic live

Set TOPICSTORE_ROOT to the directory backing the object store.
Use "topicstore-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newDeps builds the dependency bundle every command starts from. Whenever a
// durable storage root is configured, the catalog directory is rebuilt from
// the configuration topic so consecutive CLI invocations see each other's
// topics.
func newDeps(ctx context.Context) (*app.Dependencies, *config.Config) {
	cfg := config.New()

	deps, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	if cfg.StorageRoot != "" {
		if err := deps.Catalog.Rehydrate(ctx, deps.Reader); err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to rebuild catalog from configuration topic: %v\n", err)
			os.Exit(1)
		}
	}

	return deps, cfg
}
