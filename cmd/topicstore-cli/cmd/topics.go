package cmd

import (
	"github.com/spf13/cobra"
)

// topicsCmd groups the catalog subcommands.
var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Manage the topic catalog",
	Long: `Manage the topic catalog.

The catalog directs topic creation: it validates the topic, registers it
under its exact name, and appends a TopicCreated record to the reserved
"_configuration" topic.`,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}
