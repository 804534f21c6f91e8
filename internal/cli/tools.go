package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reagent-dev/reagent/internal/agent"
	"github.com/reagent-dev/reagent/internal/remote"
	"github.com/reagent-dev/reagent/internal/tools"
)

func newToolsCmd() *cobra.Command {
	var (
		repoPath  string
		mcpServer string
	)

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the tools the agent would see",
		Long: `List the combined tool catalog: local repository tools, the terminal
task_complete tool, and any tools discovered from a remote server. A remote
tool whose name collides with a local one is shadowed, exactly as it would
be during a run.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cfg.Log.BuildLogger()
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer logger.Sync()

			if cmd.Flags().Changed("repo") {
				cfg.Agent.RepoPath = repoPath
			}
			if cmd.Flags().Changed("mcp-server") {
				cfg.Agent.MCPServerURL = mcpServer
			}

			repo, err := tools.NewRepo(cfg.Agent.RepoPath, logger)
			if err != nil {
				return err
			}
			registry := agent.NewRegistry()
			repo.RegisterAll(registry)

			type row struct {
				Name        string `json:"name" yaml:"name"`
				Source      string `json:"source" yaml:"source"`
				Description string `json:"description" yaml:"description"`
			}

			var items []interface{}
			for _, d := range registry.DescribeAll() {
				items = append(items, row{Name: d.Name, Source: "local", Description: d.Description})
			}

			if cfg.Agent.MCPServerURL != "" {
				bridge := remote.New(cfg.Agent.MCPServerURL, logger)
				for _, d := range bridge.Discover(context.Background()) {
					if registry.Has(d.Name) {
						continue // shadowed by a local tool
					}
					items = append(items, row{Name: d.Name, Source: "remote", Description: d.Description})
				}
			}

			return printOutput(items, []string{"NAME", "SOURCE", "DESCRIPTION"}, func(item interface{}) []string {
				r := item.(row)
				return []string{r.Name, r.Source, truncate(r.Description, 60)}
			})
		},
	}

	cmd.Flags().StringVar(&repoPath, "repo", ".", "Repository path the tools operate on")
	cmd.Flags().StringVar(&mcpServer, "mcp-server", "", "Remote tool server URL")

	return cmd
}
