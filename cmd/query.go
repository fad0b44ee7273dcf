package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/hmans/msgboard/internal/ui"
)

var (
	queryJSON      bool
	queryYAML      bool
	queryVariables string
	queryOperation string
	queryEndpoint  string
	querySeed      string
)

// errQueryFailed is returned after GraphQL errors have been printed.
var errQueryFailed = errors.New("query failed")

var queryCmd = &cobra.Command{
	Use:     "query <document>",
	Aliases: []string{"graphql", "q"},
	Short:   "Execute a GraphQL query or mutation",
	Long: `Execute a GraphQL query or mutation.

By default the document is sent to a running server (see --endpoint). With
--seed, it runs in-process against a fresh store loaded from a seed file.

Examples:
  # Count messages on the local server
  msgboard query '{ countMessages }'

  # Create a message
  msgboard query 'mutation { createMessage(input: { content: "hi", author: { name: "Ada" } }) { id_message } }'

  # Use variables
  msgboard query -v '{"id": "abc"}' 'query Get($id: ID!) { getMessage(id_message: $id) { content } }'

  # Run against a seed file instead of a server, output as YAML
  msgboard query --seed fixtures.yaml --yaml '{ listAuthors { name } }'

  # Read from stdin
  cat query.graphql | msgboard query`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if queryJSON && queryYAML {
			return errors.New("--json and --yaml are mutually exclusive")
		}

		var query string
		if len(args) == 1 {
			query = args[0]
		} else {
			stdinQuery, err := readFromStdin(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if stdinQuery == "" {
				return errors.New("no query provided (pass as argument or pipe to stdin)")
			}
			query = stdinQuery
		}

		variables, err := parseVariables(queryVariables)
		if err != nil {
			return err
		}

		r, err := queryRunner()
		if err != nil {
			return err
		}

		resp, err := r.Run(cmd.Context(), query, variables, queryOperation)
		if err != nil {
			return err
		}
		return writeResponse(cmd.OutOrStdout(), cmd.ErrOrStderr(), resp)
	},
}

func queryRunner() (runner, error) {
	if querySeed != "" {
		res, err := newResolver(querySeed)
		if err != nil {
			return nil, err
		}
		return newLocalRunner(res), nil
	}
	return newRemoteRunner(queryEndpoint), nil
}

// parseVariables decodes a JSON object of variables. Numbers are kept as
// json.Number so integers survive for Int arguments.
func parseVariables(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var variables map[string]any
	if err := dec.Decode(&variables); err != nil {
		return nil, fmt.Errorf("invalid variables JSON: %w", err)
	}
	return variables, nil
}

// readFromStdin reads the document from stdin when it is a pipe or file.
func readFromStdin(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return "", fmt.Errorf("checking stdin: %w", err)
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", nil
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeResponse prints the data of resp to out and its errors to errOut.
// It returns errQueryFailed when the response carries errors.
func writeResponse(out, errOut io.Writer, resp *graphql.Response) error {
	switch {
	case queryJSON:
		raw, err := json.Marshal(resp)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(raw))
		if len(resp.Errors) > 0 {
			return errQueryFailed
		}
		return nil

	case queryYAML:
		if hasData(resp.Data) {
			var data any
			if err := json.Unmarshal(resp.Data, &data); err != nil {
				return err
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(data); err != nil {
				return err
			}
			if err := enc.Close(); err != nil {
				return err
			}
		}

	default:
		if hasData(resp.Data) {
			formatted := pretty.Pretty(resp.Data)
			if isTerminal(out) {
				formatted = pretty.Color(formatted, nil)
			}
			fmt.Fprint(out, string(formatted))
		}
	}

	if len(resp.Errors) > 0 {
		printErrors(errOut, resp.Errors)
		return errQueryFailed
	}
	return nil
}

func printErrors(w io.Writer, errs gqlerror.List) {
	for _, e := range errs {
		code, _ := e.Extensions["code"].(string)
		path := ""
		if len(e.Path) > 0 {
			path = e.Path.String()
		}
		fmt.Fprintln(w, ui.RenderError(e.Message, path, code))
	}
}

func hasData(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "Output the raw JSON response, errors included")
	queryCmd.Flags().BoolVar(&queryYAML, "yaml", false, "Output data as YAML")
	queryCmd.Flags().StringVarP(&queryVariables, "variables", "v", "", "Query variables as JSON string")
	queryCmd.Flags().StringVarP(&queryOperation, "operation", "o", "", "Operation name (for multi-operation documents)")
	queryCmd.Flags().StringVar(&queryEndpoint, "endpoint", DefaultEndpoint, "GraphQL endpoint of a running server")
	queryCmd.Flags().StringVar(&querySeed, "seed", "", "Run in-process against a store loaded from this seed file")
	rootCmd.AddCommand(queryCmd)
}
