package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// topicsExistsCmd represents the topics exists command.
var topicsExistsCmd = &cobra.Command{
	Use:   "exists <topic-name>",
	Short: "Check whether a topic is registered",
	Long: `Check whether a topic is registered under exactly this name.

The check is case-sensitive: a topic created as "payments" does not exist
as "Payments". Exits 0 when the topic exists, 1 when it does not.`,
	Args: cobra.ExactArgs(1),
	Run:  topicsExistsHandler,
}

func topicsExistsHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	if !deps.Catalog.TopicExists(args[0]) {
		fmt.Printf("Topic %q is not registered.\n", args[0])
		os.Exit(1)
	}
	fmt.Printf("Topic %q is registered.\n", args[0])
}

func init() {
	topicsCmd.AddCommand(topicsExistsCmd)
}
