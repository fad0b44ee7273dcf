package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmans/msgboard/internal/config"
	"github.com/hmans/msgboard/internal/ui"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long: `Writes msgboard.toml (or the file named by --config) with every setting at
its default value. An existing file is left alone unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.ConfigFile
		}
		if err := writeDefaultConfig(path, initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Success.Render("Wrote"), path)
		return nil
	},
}

// writeDefaultConfig saves config.Default() to path. It refuses to replace an
// existing file unless force is set.
func writeDefaultConfig(path string, force bool) error {
	if !force {
		_, err := os.Stat(path)
		if err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Default().Save(path); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}
