package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listOutputFormat string

// topicsListCmd represents the topics list command.
var topicsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered topics",
	Args:  cobra.NoArgs,
	Run:   topicsListHandler,
}

func topicsListHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	topics := deps.Catalog.Topics()
	sort.Slice(topics, func(i, j int) bool { return topics[i].Name < topics[j].Name })

	switch listOutputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(topics); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "table":
		if len(topics) == 0 {
			fmt.Println("No topics registered.")
			return
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tVERSION\tSCHEMAS\tDESCRIPTION")
		for _, t := range topics {
			fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", t.Name, t.Version, len(t.EventSchemas), t.Description)
		}
		w.Flush()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown output format %q (want table or json)\n", listOutputFormat)
		os.Exit(1)
	}
}

func init() {
	topicsCmd.AddCommand(topicsListCmd)

	topicsListCmd.Flags().StringVarP(&listOutputFormat, "format", "f", "table", "Output format (table, json)")
}
