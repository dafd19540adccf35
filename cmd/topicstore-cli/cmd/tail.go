package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nfrund/topicstore/internal/logging"
	"github.com/nfrund/topicstore/internal/tail"
)

// tailCmd represents the tail command.
var tailCmd = &cobra.Command{
	Use:   "tail <topic-name>",
	Short: "Follow a topic live",
	Long: `Follow a topic live, printing each newly published event as one JSON
document per line until interrupted.

Tailing watches the topic's container directory, so it requires a durable
storage root (TOPICSTORE_ROOT). It is a best-effort live view: events
published while the tail is not running are not replayed (use "read" for
that), and nothing is tracked across restarts.`,
	Args: cobra.ExactArgs(1),
	Run:  tailHandler,
}

func tailHandler(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, cfg := newDeps(ctx)
	defer deps.Close()
	if cfg.StorageRoot == "" {
		fmt.Fprintf(os.Stderr, "Error: tail requires TOPICSTORE_ROOT to point at a durable storage root\n")
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	tailer := tail.New(cfg.StorageRoot, tail.WithLogger(logging.Component("tail")))

	err := tailer.Tail(ctx, args[0], func(_ context.Context, evt map[string]any) error {
		return enc.Encode(evt)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to start tailing: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()
}

func init() {
	rootCmd.AddCommand(tailCmd)
}
