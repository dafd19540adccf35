package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/topicstore/internal/topic"
)

var (
	createDescription string
	createSchemas     []string
)

// topicsCreateCmd represents the topics create command.
var topicsCreateCmd = &cobra.Command{
	Use:   "create <topic-name>",
	Short: "Create a new topic",
	Long: `Create a new topic in the catalog.

Each --schema flag declares one event type the topic accepts, either as a
bare event-type name or as "EventType=<json-schema>". Schemas are
declarative: events are not validated against them at publish time.

Examples:
  topicstore-cli topics create payments -d "payment events" -s Deposit
  topicstore-cli topics create payments -d "payment events" -s 'Deposit={"type":"object"}' -s Withdrawal`,
	Args: cobra.ExactArgs(1),
	Run:  topicsCreateHandler,
}

func topicsCreateHandler(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	deps, _ := newDeps(ctx)
	defer deps.Close()

	schemas, err := parseSchemas(createSchemas)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	created, err := deps.Catalog.CreateTopic(ctx, args[0], createDescription, schemas)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to create topic: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Created topic %q (version %d)\n", created.Name, created.Version)
}

// parseSchemas turns --schema flag values into event schema declarations.
func parseSchemas(flags []string) ([]topic.EventSchema, error) {
	schemas := make([]topic.EventSchema, 0, len(flags))
	for _, f := range flags {
		eventType, doc := f, json.RawMessage(`{}`)
		for i := 0; i < len(f); i++ {
			if f[i] == '=' {
				eventType = f[:i]
				doc = json.RawMessage(f[i+1:])
				break
			}
		}
		if !json.Valid(doc) {
			return nil, fmt.Errorf("schema for %q is not valid JSON", eventType)
		}
		schemas = append(schemas, topic.EventSchema{EventType: eventType, Schema: doc})
	}
	return schemas, nil
}

func init() {
	topicsCmd.AddCommand(topicsCreateCmd)

	topicsCreateCmd.Flags().StringVarP(&createDescription, "description", "d", "", "Human-readable topic description (required)")
	topicsCreateCmd.Flags().StringArrayVarP(&createSchemas, "schema", "s", nil, "Event schema declaration, repeatable (required)")
	_ = topicsCreateCmd.MarkFlagRequired("description")
	_ = topicsCreateCmd.MarkFlagRequired("schema")
}
