package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version can be overridden at build time:
// go build -ldflags "-X 'github.com/nfrund/topicstore/cmd/topicstore-cli/cmd.Version=v1.2.3'"
var Version = "dev"

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the CLI version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("topicstore-cli %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
