package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// readCmd represents the read command.
var readCmd = &cobra.Command{
	Use:   "read <topic-name>",
	Short: "Replay every event stored for a topic",
	Long: `Replay every event stored for a topic, from the beginning, one JSON
document per line.

Objects that cannot be read or decoded are logged and skipped; the replay
itself never fails on a corrupt record. A topic that was never published to
produces no output.`,
	Args: cobra.ExactArgs(1),
	Run:  readHandler,
}

func readHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	enc := json.NewEncoder(os.Stdout)
	err := deps.Reader.Read(ctx, args[0], func(_ context.Context, evt map[string]any) error {
		return enc.Encode(evt)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Replay failed: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(readCmd)
}
