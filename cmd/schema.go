package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmans/msgboard/internal/board"
	"github.com/hmans/msgboard/internal/graph"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the GraphQL schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), GetGraphQLSchema())
		return nil
	},
}

// GetGraphQLSchema returns the GraphQL schema as SDL.
func GetGraphQLSchema() string {
	es := graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Store: board.New()},
	})
	return graph.FormatSchema(es)
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
