// Package cli implements the reagent command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reagent-dev/reagent/internal/config"
)

var (
	configPath string
	cfg        *config.Config
)

// NewRootCmd creates the top-level reagent CLI command with all subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reagent",
		Short: "Reason-then-act agent for code repositories",
		Long: `Reagent runs an LLM-driven agent loop against a code repository.
The model reasons in the open, picks tools, and reads their observations
until it declares the task complete or runs out of iterations.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return fmt.Errorf("loading config: %w", err)
				}
				cfg = loaded
				return nil
			}
			cfg = config.DefaultConfig()
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table|json|yaml")

	cmd.AddCommand(
		newRunCmd(),
		newServeCmd(),
		newToolsCmd(),
		newHistoryCmd(),
		newShowCmd(),
	)

	return cmd
}
