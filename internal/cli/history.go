package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/reagent-dev/reagent/internal/transcript"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"runs"},
		Short:   "List stored run transcripts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List()
			if err != nil {
				return err
			}

			items := make([]interface{}, 0, len(records))
			for _, rec := range records {
				items = append(items, rec)
			}

			return printOutput(items, []string{"ID", "STATE", "ITERATIONS", "AGE", "TASK"}, func(item interface{}) []string {
				rec := item.(*transcript.Record)
				return []string{
					rec.ID,
					string(rec.State),
					strconv.Itoa(rec.Iterations),
					formatAge(rec.StartedAt),
					truncate(rec.Task, 50),
				}
			})
		},
	}

	return cmd
}
