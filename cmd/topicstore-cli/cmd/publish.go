package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var publishEvent string

// publishCmd represents the publish command.
var publishCmd = &cobra.Command{
	Use:   "publish <topic-name>",
	Short: "Append one event to a topic",
	Long: `Append one JSON event to a topic's durable log.

The event is read from --event, or from stdin when --event is omitted. The
topic's storage container is created on first use, so publishing does not
require the topic to be registered in the catalog.

Examples:
  topicstore-cli publish payments --event '{"account":"acc-1","amount":42}'
  cat deposit.json | topicstore-cli publish payments`,
	Args: cobra.ExactArgs(1),
	Run:  publishHandler,
}

func publishHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	raw := []byte(publishEvent)
	if publishEvent == "" {
		var err error
		raw, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to read event from stdin: %v\n", err)
			os.Exit(1)
		}
	}

	var evt any
	if err := json.Unmarshal(raw, &evt); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Event is not valid JSON: %v\n", err)
		os.Exit(1)
	}

	key, err := deps.Publisher.Publish(ctx, args[0], evt)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to publish event: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Published event to %q as %s\n", args[0], key)
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVarP(&publishEvent, "event", "e", "", "Event body as JSON (defaults to stdin)")
}
