package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hmans/msgboard/internal/server"
	"github.com/hmans/msgboard/internal/ui"
)

var (
	servePort int
	serveSeed string
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"s"},
	Short:   "Start the GraphQL server",
	Long: `Start an HTTP server that serves the GraphQL API.

The server exposes:
  - GraphQL endpoint at /graphql (POST, GET)
  - GraphQL Playground at /graphql when opened in a browser
  - /health and /metrics

Examples:
  # Start server on the configured port (default 4000)
  msgboard serve

  # Start on another port with some messages preloaded
  msgboard serve --port 8080 --seed fixtures.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		res, err := newResolver(serveSeed)
		if err != nil {
			return err
		}
		if res.Index != nil {
			defer res.Index.Close()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.ErrOrStderr(), "%s http://localhost:%d%s\n",
			ui.Success.Render("msgboard listening at"), cfg.Server.Port, server.GraphQLPath)

		return server.Run(ctx, cfg, server.NewRouter(cfg, res))
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 4000, "Port to listen on (overrides the config file)")
	serveCmd.Flags().StringVar(&serveSeed, "seed", "", "YAML file of messages to load at startup")
	rootCmd.AddCommand(serveCmd)
}
