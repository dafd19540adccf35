package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nfrund/topicstore/internal/topic"
)

var getOutputFormat string

// topicsGetCmd represents the topics get command.
var topicsGetCmd = &cobra.Command{
	Use:   "get <topic-name>",
	Short: "Get detailed information about a specific topic",
	Long: `Get detailed information about a topic registered in the catalog.

The lookup is case-sensitive against the registered name.

Examples:
  topicstore-cli topics get payments
  topicstore-cli topics get payments --format json`,
	Args: cobra.ExactArgs(1),
	Run:  topicsGetHandler,
}

func topicsGetHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	t, err := deps.Catalog.GetTopic(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintf(os.Stderr, "\nUse 'topicstore-cli topics list' to see all registered topics.\n")
		os.Exit(1)
	}

	if err := displayTopic(t, getOutputFormat); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to display topic: %v\n", err)
		os.Exit(1)
	}
}

func displayTopic(t topic.Topic, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(t)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintf(w, "Name:\t%s\n", t.Name)
		fmt.Fprintf(w, "Description:\t%s\n", t.Description)
		fmt.Fprintf(w, "Version:\t%d\n", t.Version)
		fmt.Fprintf(w, "Created:\t%s\n", t.CreatedAt.Format("2006-01-02 15:04:05 MST"))
		for i, s := range t.EventSchemas {
			fmt.Fprintf(w, "Schema %d:\t%s\n", i+1, s.EventType)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table or json)", format)
	}
}

func init() {
	topicsCmd.AddCommand(topicsGetCmd)

	topicsGetCmd.Flags().StringVarP(&getOutputFormat, "format", "f", "table", "Output format (table, json)")
}
