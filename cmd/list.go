package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmans/msgboard/internal/board"
	"github.com/hmans/msgboard/internal/ui"
)

const listAuthorsQuery = `query ListAuthors { listAuthors { id_author name age nationality } }`

const listMessagesQuery = `query ListMessages($name: String!) {
  listMessages(author_name: $name) { id_message content }
}`

var (
	listEndpoint string
	listSeed     string
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show all authors and their messages as a tree",
	Long: `Show all authors and their messages as a tree, using the same GraphQL
queries any client would.

Examples:
  msgboard list
  msgboard list --seed fixtures.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var r runner
		if listSeed != "" {
			res, err := newResolver(listSeed)
			if err != nil {
				return err
			}
			r = newLocalRunner(res)
		} else {
			r = newRemoteRunner(listEndpoint)
		}

		nodes, err := fetchBoard(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderBoard(nodes))
		return nil
	},
}

// fetchBoard loads every author and then each author's messages.
func fetchBoard(ctx context.Context, r runner) ([]ui.AuthorNode, error) {
	var authors struct {
		ListAuthors []*board.Author `json:"listAuthors"`
	}
	if err := runInto(ctx, r, listAuthorsQuery, nil, &authors); err != nil {
		return nil, err
	}

	nodes := make([]ui.AuthorNode, 0, len(authors.ListAuthors))
	for _, a := range authors.ListAuthors {
		if a == nil {
			continue
		}
		var msgs struct {
			ListMessages []*board.Message `json:"listMessages"`
		}
		if err := runInto(ctx, r, listMessagesQuery, map[string]any{"name": a.Name}, &msgs); err != nil {
			return nil, err
		}

		node := ui.AuthorNode{Author: a}
		for _, m := range msgs.ListMessages {
			if m != nil {
				m.Author = a
				node.Messages = append(node.Messages, m)
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// runInto executes a document and decodes its data into v. GraphQL errors
// are returned as a single error.
func runInto(ctx context.Context, r runner, query string, variables map[string]any, v any) error {
	resp, err := r.Run(ctx, query, variables, "")
	if err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return fmt.Errorf("graphql: %w", resp.Errors)
	}
	if err := json.Unmarshal(resp.Data, v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func init() {
	listCmd.Flags().StringVar(&listEndpoint, "endpoint", DefaultEndpoint, "GraphQL endpoint of a running server")
	listCmd.Flags().StringVar(&listSeed, "seed", "", "Read from a store loaded from this seed file instead of a server")
	rootCmd.AddCommand(listCmd)
}
