package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/erland/pwa-modeller-sub000/pkg/slidelink"
)

// rootOptions holds the persistent flags and the loaded config file.
// Subcommand flags that were set explicitly override config values.
type rootOptions struct {
	verbose    bool
	configPath string
	cfg        slidelink.Config
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}

	root := &cobra.Command{
		Use:   "slidelink",
		Short: "Rebuild diagram connectors in generated presentation packages",
		Long: `slidelink repairs machine-generated slides so that diagram edges become
native connector shapes attached to their endpoint nodes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if ro.configPath != "" {
				cfg, err := slidelink.LoadConfig(ro.configPath)
				if err != nil {
					return err
				}
				ro.cfg = cfg
			}
			level, err := ro.cfg.Level()
			if err != nil {
				return fmt.Errorf("invalid log level: %w", err)
			}
			if ro.verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&ro.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&ro.configPath, "config", "", "TOML config file")

	root.AddCommand(newPostProcessCmd(ro))
	root.AddCommand(newInspectCmd())
	root.AddCommand(newSheetCmd())

	return root
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func checkInput(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", path)
	}
	return nil
}
