package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmans/msgboard/internal/config"
	"github.com/hmans/msgboard/internal/logging"
)

var (
	cfg        *config.Config
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "msgboard",
	Short: "An in-memory message board with a GraphQL API",
	Long: `msgboard keeps messages and their authors in memory and exposes them
through a GraphQL API. Run "msgboard serve" to start the server, or
"msgboard query" to run a query against a server or a seed file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logging.Setup(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.ConfigFile, "Path to the config file")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
