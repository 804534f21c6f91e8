package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/reagent-dev/reagent/internal/agent"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a stored run transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(args[0])
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return printJSON(rec)
			}
			if outputFormat == "yaml" {
				return printYAML(rec)
			}

			header := color.New(color.FgCyan, color.Bold)
			header.Printf("Run %s\n", rec.ID)
			fmt.Printf("Task:       %s\n", rec.Task)
			fmt.Printf("State:      %s\n", rec.State)
			if rec.Summary != "" {
				fmt.Printf("Summary:    %s\n", rec.Summary)
			}
			fmt.Printf("Iterations: %d\n", rec.Iterations)
			fmt.Printf("Duration:   %s\n", rec.FinishedAt.Sub(rec.StartedAt).Round(time.Millisecond))
			fmt.Println()

			for _, turn := range rec.Conversation {
				switch turn.Role {
				case agent.RoleAssistant:
					color.New(color.FgGreen).Printf("[%s]\n", turn.Role)
				default:
					color.New(color.FgBlue).Printf("[%s]\n", turn.Role)
				}
				fmt.Println(turn.Content)
				fmt.Println(strings.Repeat("-", 60))
			}
			return nil
		},
	}

	return cmd
}
